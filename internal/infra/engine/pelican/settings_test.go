package pelican

import (
	"testing"
	"time"

	"github.com/blogward/blogward-backend/internal/domain/entity"
	"github.com/stretchr/testify/require"
)

func testPost() *entity.Post {
	return &entity.Post{
		Content: entity.Content{
			Slug:    "hello-world",
			Title:   "Hello World",
			Lang:    "en",
			Created: time.Date(2025, time.March, 14, 10, 30, 0, 0, time.UTC),
		},
		Category:   &entity.Category{Slug: "news", Name: "News"},
		AuthorName: "alice",
	}
}

func TestPostURLTemplates(t *testing.T) {
	post := testPost()
	cases := map[string]string{
		"{slug}.html":                       "hello-world.html",
		"{slug}/index.html":                 "hello-world/index.html",
		"{date:%Y}/{slug}.html":             "2025/hello-world.html",
		"{date:%Y}/{date:%b}/{slug}.html":   "2025/Mar/hello-world.html",
		"{category}/{slug}.html":            "news/hello-world.html",
		"{category}/{date:%Y}/{slug}.html":  "news/2025/hello-world.html",
		"{lang}/{slug}.html":                "en/hello-world.html",
		"{author}/{date:%y%m%d}/{slug}.html": "alice/250314/hello-world.html",
	}
	for template, want := range cases {
		settings := defaultSettings(1, "notmyidea")
		settings.PostURLTemplate = template
		require.Equal(t, want, settings.PostURL(post), "template %s", template)
	}
}

func TestPostURLIsDeterministic(t *testing.T) {
	settings := defaultSettings(1, "notmyidea")
	settings.PostURLTemplate = "{category}/{date:%Y}/{slug}.html"
	post := testPost()

	first := settings.PostURL(post)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, settings.PostURL(post))
	}
}

func TestPostURLWithMissingCategoryCollapses(t *testing.T) {
	settings := defaultSettings(1, "notmyidea")
	settings.PostURLTemplate = "{category}/{slug}.html"
	post := testPost()
	post.Category = nil

	require.Equal(t, "/hello-world.html", settings.PostURL(post))
}

func TestPageURLUsesPrefix(t *testing.T) {
	settings := defaultSettings(1, "notmyidea")
	page := &entity.Page{Content: entity.Content{Slug: "about"}}
	require.Equal(t, "about.html", settings.PageURL(page))

	settings.PageURLPrefix = "pages"
	require.Equal(t, "pages/about.html", settings.PageURL(page))
}
