package pelican

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/blogward/blogward-backend/internal/domain/entity"
	"github.com/blogward/blogward-backend/internal/publish"
)

const (
	articlesDir = "articles"
	pagesDir    = "pages"
	confFile    = "pelicanconf.py"
)

// Engine renders sites with the external pelican generator. Source and output
// trees live under the configured roots keyed by site URN, so no two sites
// share a directory.
type Engine struct {
	cfg   *Config
	store SettingsStore

	mu    sync.RWMutex
	cache map[uint64]Settings
}

var _ publish.RenderEngine = (*Engine)(nil)

func NewEngine(cfg *Config, store SettingsStore) *Engine {
	return &Engine{
		cfg:   cfg,
		store: store,
		cache: make(map[uint64]Settings),
	}
}

// settings resolves the site's engine settings, falling back to defaults when
// the store is unreachable so the pure path/URL accessors stay usable.
// Settings are cached for the process lifetime: direct edits to the settings
// table become visible after a restart.
func (e *Engine) settings(site *entity.Site) Settings {
	e.mu.RLock()
	cached, ok := e.cache[site.ID]
	e.mu.RUnlock()
	if ok {
		return cached
	}

	settings, err := e.store.Get(context.Background(), site.ID)
	if err != nil {
		slog.Error("err loading engine settings, using defaults", "site", site.URN(), "err", err)
		settings = defaultSettings(site.ID, e.cfg.DefaultTheme)
	}
	e.mu.Lock()
	e.cache[site.ID] = settings
	e.mu.Unlock()
	return settings
}

func (e *Engine) sourcePath(site *entity.Site) string {
	return filepath.Join(e.cfg.ContentRoot, site.URN())
}

func (e *Engine) OutputPath(site *entity.Site) string {
	return filepath.Join(e.cfg.OutputRoot, site.URN())
}

func (e *Engine) postSourcePath(site *entity.Site, post *entity.Post) string {
	return filepath.Join(e.sourcePath(site), articlesDir, post.Slug+".md")
}

func (e *Engine) pageSourcePath(site *entity.Site, page *entity.Page) string {
	return filepath.Join(e.sourcePath(site), pagesDir, page.Slug+".md")
}

func (e *Engine) PostOutputPath(site *entity.Site, post *entity.Post) string {
	return filepath.Join(e.OutputPath(site), e.settings(site).PostURL(post))
}

func (e *Engine) PageOutputPath(site *entity.Site, page *entity.Page) string {
	return filepath.Join(e.OutputPath(site), e.settings(site).PageURL(page))
}

func (e *Engine) PostURL(site *entity.Site, post *entity.Post, absolute bool) string {
	url := e.settings(site).PostURL(post)
	if absolute {
		return site.Absolutize(url)
	}
	return url
}

func (e *Engine) PageURL(site *entity.Site, page *entity.Page, absolute bool) string {
	url := e.settings(site).PageURL(page)
	if absolute {
		return site.Absolutize(url)
	}
	return url
}

// EnsureDirs creates the site's source and output trees and materializes the
// default settings row. Idempotent, called on every site save.
func (e *Engine) EnsureDirs(site *entity.Site) error {
	for _, dir := range []string{
		filepath.Join(e.sourcePath(site), articlesDir),
		filepath.Join(e.sourcePath(site), pagesDir),
		e.OutputPath(site),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("err creating site dir %s, %v", dir, err)
		}
	}
	e.settings(site)
	return nil
}

func (e *Engine) WritePost(site *entity.Site, post *entity.Post) error {
	path := e.postSourcePath(site, post)
	slog.Info("Writing post source", "path", path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("err creating post source %s, %v", path, err)
	}
	defer file.Close()
	if err := writePostContent(post, file); err != nil {
		return fmt.Errorf("err writing post source %s, %v", path, err)
	}
	if post.Heading != "" {
		if err := e.copyHeading(site, post.Heading, e.PostOutputPath(site, post)); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) WritePage(site *entity.Site, page *entity.Page) error {
	path := e.pageSourcePath(site, page)
	slog.Info("Writing page source", "path", path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("err creating page source %s, %v", path, err)
	}
	defer file.Close()
	if err := writePageContent(page, file); err != nil {
		return fmt.Errorf("err writing page source %s, %v", path, err)
	}
	if page.Heading != "" {
		if err := e.copyHeading(site, page.Heading, e.PageOutputPath(site, page)); err != nil {
			return err
		}
	}
	return nil
}

// copyHeading places a heading image next to the item's rendered output under
// the output file's name with the image extension.
func (e *Engine) copyHeading(site *entity.Site, heading, outputPath string) error {
	dest := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + filepath.Ext(heading)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return copyFile(heading, dest)
}

// Render refreshes the requested sources and runs the generator. Purge removes
// the stale output tree before the build.
func (e *Engine) Render(ctx context.Context, site *entity.Site, post *entity.Post, page *entity.Page, opts publish.Options) error {
	if opts.Purge && post == nil && page == nil {
		slog.Info("Purging output", "site", site.URN())
		if err := os.RemoveAll(e.OutputPath(site)); err != nil {
			return fmt.Errorf("err purging output for %s, %v", site.URN(), err)
		}
	}
	if post != nil {
		if err := e.WritePost(site, post); err != nil {
			return err
		}
	}
	if page != nil {
		if err := e.WritePage(site, page); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(e.OutputPath(site), 0o755); err != nil {
		return err
	}
	if err := e.copyLogo(site); err != nil {
		return err
	}

	confPath, err := e.writeConf(site)
	if err != nil {
		return err
	}
	return e.runGenerator(ctx, site, confPath)
}

// copyLogo copies the site logo into the output root unless already present.
func (e *Engine) copyLogo(site *entity.Site) error {
	if site.Logo == "" {
		return nil
	}
	dest := filepath.Join(e.OutputPath(site), filepath.Base(site.Logo))
	if _, err := os.Stat(dest); err == nil {
		return nil
	}
	return copyFile(site.Logo, dest)
}

func (e *Engine) runGenerator(ctx context.Context, site *entity.Site, confPath string) error {
	proc := exec.CommandContext(ctx, e.cfg.Binary, e.sourcePath(site), "-o", e.OutputPath(site), "-s", confPath)
	proc.Dir = e.sourcePath(site)
	slog.Info("Running generator", "site", site.URN(), "cmd", proc.String())
	out, err := proc.CombinedOutput()
	if err != nil {
		return fmt.Errorf("generator failed for %s: %v: %s", site.URN(), err, tail(out))
	}
	return nil
}

// Delete removes a single item's source and output files, or the whole output
// tree for the site.
func (e *Engine) Delete(site *entity.Site, post *entity.Post, page *entity.Page) error {
	if post != nil {
		slog.Info("Deleting post", "site", site.URN(), "slug", post.Slug)
		if err := removeIfExists(e.postSourcePath(site, post)); err != nil {
			return err
		}
		return removeIfExists(e.PostOutputPath(site, post))
	}
	if page != nil {
		slog.Info("Deleting page", "site", site.URN(), "slug", page.Slug)
		if err := removeIfExists(e.pageSourcePath(site, page)); err != nil {
			return err
		}
		return removeIfExists(e.PageOutputPath(site, page))
	}
	slog.Info("Deleting whole output", "site", site.URN())
	if err := os.RemoveAll(e.OutputPath(site)); err != nil {
		return err
	}
	return os.RemoveAll(e.sourcePath(site))
}

// writeConf resolves the full generator configuration and writes it as the
// settings file the binary is invoked with.
func (e *Engine) writeConf(site *entity.Site) (string, error) {
	settings := e.settings(site)
	conf := e.buildConf(site, settings)

	keys := make([]string, 0, len(conf))
	for key := range conf {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "%s = %s\n", key, pyValue(conf[key]))
	}

	confPath := filepath.Join(e.sourcePath(site), confFile)
	if err := os.WriteFile(confPath, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("err writing generator conf %s, %v", confPath, err)
	}
	return confPath, nil
}

func (e *Engine) buildConf(site *entity.Site, settings Settings) map[string]any {
	articleURL := strings.TrimSuffix(settings.PostURLTemplate, "index.html")
	articleURL = strings.TrimPrefix(articleURL, "/")

	robots := "all"
	if !site.AllowCrawlers {
		robots = "noindex"
	}

	conf := map[string]any{
		"SITENAME":                   site.Title,
		"SITEDESCRIPTION":            site.Subtitle,
		"SITEURL":                    strings.TrimSuffix(site.Absolutize(""), "/"),
		"TIMEZONE":                   site.Timezone,
		"DEFAULT_LANG":               site.Lang,
		"PATH":                       e.sourcePath(site),
		"OUTPUT_PATH":                e.OutputPath(site),
		"ARTICLE_PATHS":              []string{articlesDir},
		"PAGE_PATHS":                 []string{pagesDir},
		"ARTICLE_URL":                articleURL,
		"ARTICLE_SAVE_AS":            settings.PostURLTemplate,
		"PAGE_URL":                   settings.PageURLTemplate(),
		"PAGE_SAVE_AS":               settings.PageURLTemplate(),
		"CATEGORY_URL":               settings.CategoryURLTemplate(),
		"CATEGORY_SAVE_AS":           settings.CategoryURLTemplate(),
		"AUTHOR_URL":                 settings.AuthorURLPrefix + "/index.html",
		"AUTHOR_SAVE_AS":             settings.AuthorURLPrefix + "/index.html",
		"TAGS_URL":                   settings.TagsURLPrefix + "/index.html",
		"TAGS_SAVE_AS":               settings.TagsURLPrefix + "/index.html",
		"THEME":                      filepath.Join(e.cfg.ThemesPath, settings.Theme),
		"DISPLAY_PAGES_ON_MENU":      settings.ShowPagesInMenu,
		"DISPLAY_CATEGORIES_ON_MENU": settings.ShowCategoriesInMenu,
		"ROBOTS":                     robots,
	}
	if site.Logo != "" {
		conf["SITELOGO"] = filepath.Base(site.Logo)
	}

	if len(site.Links) > 0 {
		menu := make([][2]string, len(site.Links))
		for i, link := range site.Links {
			menu[i] = [2]string{link.Title, link.URL}
		}
		conf["MENUITEMS"] = menu
	}

	var social [][2]string
	for _, profile := range [][2]string{
		{"facebook", settings.Facebook},
		{"twitter", settings.Twitter},
		{"linkedin", settings.LinkedIn},
		{"github", settings.GitHub},
		{"instagram", settings.Instagram},
	} {
		if profile[1] != "" {
			social = append(social, profile)
		}
	}
	if len(social) > 0 {
		conf["SOCIAL"] = social
	}
	return conf
}

func pyValue(value any) string {
	switch v := value.(type) {
	case string:
		return "'" + strings.ReplaceAll(v, "'", "\\'") + "'"
	case bool:
		if v {
			return "True"
		}
		return "False"
	case []string:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = pyValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case [][2]string:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = "(" + pyValue(item[0]) + ", " + pyValue(item[1]) + ")"
		}
		return "(" + strings.Join(parts, ", ") + ",)"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("err opening %s, %v", src, err)
	}
	defer in.Close()
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("err creating %s, %v", dest, err)
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("err copying to %s, %v", dest, err)
	}
	return nil
}

func removeIfExists(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func tail(out []byte) string {
	const limit = 512
	if len(out) <= limit {
		return string(out)
	}
	return "..." + string(out[len(out)-limit:])
}
