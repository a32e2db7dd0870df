package pelican

import (
	"regexp"
	"strings"
	"time"

	"github.com/blogward/blogward-backend/internal/domain/entity"
)

// DefaultPostURLTemplate is the first of the selectable templates; the rest
// mix in date, category and author segments.
const DefaultPostURLTemplate = "{slug}.html"

// PostURLTemplates are the template choices offered to site owners.
var PostURLTemplates = []string{
	"{slug}.html",
	"{slug}/index.html",
	"{date:%Y}/{slug}.html",
	"{date:%Y}/{date:%b}/{slug}.html",
	"{category}/{slug}.html",
	"{category}/{date:%Y}/{slug}.html",
	"{lang}/{slug}.html",
}

// Settings is the per-site engine configuration. URL derivation from it is
// pure so repeated calls always agree with the on-disk output layout.
type Settings struct {
	SiteID uint64
	Theme  string

	PostURLTemplate   string
	PageURLPrefix     string
	CategoryURLPrefix string
	AuthorURLPrefix   string
	TagsURLPrefix     string

	ShowPagesInMenu      bool
	ShowCategoriesInMenu bool

	Facebook  string
	Twitter   string
	LinkedIn  string
	GitHub    string
	Instagram string
}

func defaultSettings(siteID uint64, theme string) Settings {
	return Settings{
		SiteID:               siteID,
		Theme:                theme,
		PostURLTemplate:      DefaultPostURLTemplate,
		CategoryURLPrefix:    "category",
		AuthorURLPrefix:      "author",
		TagsURLPrefix:        "tags",
		ShowPagesInMenu:      true,
		ShowCategoriesInMenu: true,
	}
}

// PageURLTemplate prefixes "{slug}.html" when a page prefix is configured.
func (s Settings) PageURLTemplate() string {
	if s.PageURLPrefix == "" {
		return "{slug}.html"
	}
	return s.PageURLPrefix + "/{slug}.html"
}

func (s Settings) CategoryURLTemplate() string {
	if s.CategoryURLPrefix == "" {
		return "{slug}.html"
	}
	return s.CategoryURLPrefix + "/{slug}.html"
}

// PostURL interpolates the post URL template. Unset optional fields collapse
// to empty segments, exactly as the output files are laid out.
func (s Settings) PostURL(post *entity.Post) string {
	category := ""
	if post.Category != nil {
		category = post.Category.Slug
	}
	url := strings.NewReplacer(
		"{slug}", post.Slug,
		"{category}", category,
		"{author}", post.AuthorName,
		"{lang}", post.Lang,
	).Replace(s.PostURLTemplate)
	return interpolateDate(url, post.Created)
}

// PageURL interpolates the page URL template.
func (s Settings) PageURL(page *entity.Page) string {
	return strings.Replace(s.PageURLTemplate(), "{slug}", page.Slug, 1)
}

var datePlaceholder = regexp.MustCompile(`\{date:([^}]+)\}`)

// strftime directives used by the URL template choices mapped onto Go's
// reference time.
var strftimeReplacer = strings.NewReplacer(
	"%Y", "2006",
	"%y", "06",
	"%m", "01",
	"%b", "Jan",
	"%d", "02",
)

func interpolateDate(url string, date time.Time) string {
	return datePlaceholder.ReplaceAllStringFunc(url, func(match string) string {
		directive := datePlaceholder.FindStringSubmatch(match)[1]
		return date.Format(strftimeReplacer.Replace(directive))
	})
}
