package pelican

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blogward/blogward-backend/internal/domain/entity"
	"github.com/stretchr/testify/require"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	root := t.TempDir()
	cfg := &Config{
		ContentRoot:  filepath.Join(root, "content"),
		OutputRoot:   filepath.Join(root, "output"),
		ThemesPath:   filepath.Join(root, "themes"),
		Binary:       "pelican",
		DefaultTheme: "notmyidea",
	}
	return NewEngine(cfg, &StaticSettingsStore{Theme: "notmyidea"})
}

func testSite() *entity.Site {
	return &entity.Site{
		ID:     1,
		Domain: "example.com",
		Title:  "Example",
		Lang:   "en",
		Secure: true,
	}
}

func TestEnsureDirsCreatesSourceAndOutputTrees(t *testing.T) {
	engine := testEngine(t)
	site := testSite()

	require.NoError(t, engine.EnsureDirs(site))
	for _, dir := range []string{
		filepath.Join(engine.cfg.ContentRoot, "example.com", "articles"),
		filepath.Join(engine.cfg.ContentRoot, "example.com", "pages"),
		filepath.Join(engine.cfg.OutputRoot, "example.com"),
	} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		require.True(t, info.IsDir())
	}

	// a second call over existing dirs is fine
	require.NoError(t, engine.EnsureDirs(site))
}

func TestSitesDoNotShareTrees(t *testing.T) {
	engine := testEngine(t)
	first := testSite()
	second := &entity.Site{ID: 2, Domain: "example.com", Path: "/blog"}

	require.NotEqual(t, engine.OutputPath(first), engine.OutputPath(second))
	require.NotEqual(t, engine.sourcePath(first), engine.sourcePath(second))
}

func TestWritePostProducesSourceFile(t *testing.T) {
	engine := testEngine(t)
	site := testSite()
	require.NoError(t, engine.EnsureDirs(site))

	post := &entity.Post{
		Content: entity.Content{
			Slug:    "hello-world",
			Title:   "Hello World",
			Lang:    "en",
			Body:    "First paragraph.",
			Created: time.Date(2025, time.March, 14, 10, 30, 0, 0, time.UTC),
			Updated: time.Date(2025, time.March, 15, 9, 0, 0, 0, time.UTC),
		},
		AuthorName:  "alice",
		Category:    &entity.Category{Slug: "news", Name: "News"},
		Description: "A first\npost.",
	}
	require.NoError(t, engine.WritePost(site, post))

	data, err := os.ReadFile(filepath.Join(engine.cfg.ContentRoot, "example.com", "articles", "hello-world.md"))
	require.NoError(t, err)
	content := string(data)

	require.Contains(t, content, "Title: Hello World\n")
	require.Contains(t, content, "Date: 2025-03-14 10:30\n")
	require.Contains(t, content, "Modified: 2025-03-15 09:00\n")
	require.Contains(t, content, "Author: alice\n")
	require.Contains(t, content, "Slug: hello-world\n")
	require.Contains(t, content, "Category: News\n")
	require.Contains(t, content, "Summary: A first post.\n", "newlines in the summary are flattened")
	require.Contains(t, content, "\n\nFirst paragraph.")
	require.NotContains(t, content, "Status: draft")
}

func TestWritePostMarksDrafts(t *testing.T) {
	engine := testEngine(t)
	site := testSite()
	require.NoError(t, engine.EnsureDirs(site))

	post := &entity.Post{
		Content: entity.Content{Slug: "wip", Title: "WIP", Created: time.Now(), Updated: time.Now()},
		Draft:   true,
	}
	require.NoError(t, engine.WritePost(site, post))

	data, err := os.ReadFile(filepath.Join(engine.cfg.ContentRoot, "example.com", "articles", "wip.md"))
	require.NoError(t, err)
	require.Contains(t, string(data), "Status: draft\n")
}

func TestWritePageProducesSourceFile(t *testing.T) {
	engine := testEngine(t)
	site := testSite()
	require.NoError(t, engine.EnsureDirs(site))

	page := &entity.Page{
		Content: entity.Content{
			Slug:    "about",
			Title:   "About",
			Body:    "About this site.",
			Created: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
			Updated: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	require.NoError(t, engine.WritePage(site, page))

	data, err := os.ReadFile(filepath.Join(engine.cfg.ContentRoot, "example.com", "pages", "about.md"))
	require.NoError(t, err)
	content := string(data)
	require.Contains(t, content, "Title: About\n")
	require.Contains(t, content, "Slug: about\n")
	require.Contains(t, content, "\n\nAbout this site.")
}

func TestDeleteRemovesSingleItemFiles(t *testing.T) {
	engine := testEngine(t)
	site := testSite()
	require.NoError(t, engine.EnsureDirs(site))

	post := &entity.Post{Content: entity.Content{Slug: "gone", Title: "Gone", Created: time.Now(), Updated: time.Now()}}
	require.NoError(t, engine.WritePost(site, post))

	outputPath := engine.PostOutputPath(site, post)
	require.NoError(t, os.MkdirAll(filepath.Dir(outputPath), 0o755))
	require.NoError(t, os.WriteFile(outputPath, []byte("<html></html>"), 0o644))

	require.NoError(t, engine.Delete(site, post, nil))

	_, err := os.Stat(filepath.Join(engine.cfg.ContentRoot, "example.com", "articles", "gone.md"))
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(outputPath)
	require.True(t, os.IsNotExist(err))

	// deleting an already deleted item stays quiet
	require.NoError(t, engine.Delete(site, post, nil))
}

func TestDeleteSiteRemovesBothTrees(t *testing.T) {
	engine := testEngine(t)
	site := testSite()
	require.NoError(t, engine.EnsureDirs(site))

	require.NoError(t, engine.Delete(site, nil, nil))
	_, err := os.Stat(engine.OutputPath(site))
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(engine.sourcePath(site))
	require.True(t, os.IsNotExist(err))
}

func TestPostURLAbsoluteUsesSiteScheme(t *testing.T) {
	engine := testEngine(t)
	site := testSite()
	post := &entity.Post{Content: entity.Content{Slug: "hello-world", Created: time.Now()}}

	require.Equal(t, "hello-world.html", engine.PostURL(site, post, false))
	require.Equal(t, "https://example.com/hello-world.html", engine.PostURL(site, post, true))
}

func TestBuildConfRespectsCrawlerOptOut(t *testing.T) {
	engine := testEngine(t)
	site := testSite()
	site.AllowCrawlers = false
	settings := defaultSettings(site.ID, "notmyidea")

	conf := engine.buildConf(site, settings)
	require.Equal(t, "noindex", conf["ROBOTS"])

	site.AllowCrawlers = true
	conf = engine.buildConf(site, settings)
	require.Equal(t, "all", conf["ROBOTS"])
}

func TestBuildConfRendersMenuItems(t *testing.T) {
	engine := testEngine(t)
	site := testSite()
	settings := defaultSettings(site.ID, "notmyidea")

	conf := engine.buildConf(site, settings)
	require.NotContains(t, conf, "MENUITEMS")

	site.Links = []entity.Link{
		{Title: "About", URL: "/pages/about.html"},
		{Title: "Blog", URL: "https://example.com/blog"},
	}
	conf = engine.buildConf(site, settings)
	require.Equal(t, [][2]string{
		{"About", "/pages/about.html"},
		{"Blog", "https://example.com/blog"},
	}, conf["MENUITEMS"])
}

func TestPyValueRendersPythonLiterals(t *testing.T) {
	require.Equal(t, `'text'`, pyValue("text"))
	require.Equal(t, `'it\'s'`, pyValue("it's"))
	require.Equal(t, "True", pyValue(true))
	require.Equal(t, "False", pyValue(false))
	require.Equal(t, "3", pyValue(3))
	require.Equal(t, `['a', 'b']`, pyValue([]string{"a", "b"}))
}
