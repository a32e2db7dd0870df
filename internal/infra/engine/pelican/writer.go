package pelican

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/blogward/blogward-backend/internal/domain/entity"
)

const metaTimeLayout = "2006-01-02 15:04"

// writePostContent writes a post as a generator-native markdown source file:
// a metadata header the generator understands, a blank line, then the body.
func writePostContent(post *entity.Post, w io.Writer) error {
	meta := []struct {
		key   string
		value string
	}{
		{"Title", post.Title},
		{"Date", post.Created.Format(metaTimeLayout)},
		{"Modified", post.Updated.Format(metaTimeLayout)},
		{"Author", post.AuthorName},
		{"Slug", post.Slug},
	}
	if post.Heading != "" {
		meta = append(meta, struct{ key, value string }{"Heading", post.Heading})
	}
	if post.Draft {
		meta = append(meta, struct{ key, value string }{"Status", "draft"})
	}
	if post.Lang != "" {
		meta = append(meta, struct{ key, value string }{"Lang", post.Lang})
	}
	if post.Category != nil {
		meta = append(meta, struct{ key, value string }{"Category", post.Category.Name})
	}
	if post.TranslationOf != nil {
		// marks this post as a translation of the original content id
		meta = append(meta, struct{ key, value string }{"Original", strconv.FormatUint(*post.TranslationOf, 10)})
	}
	meta = append(meta, struct{ key, value string }{"Summary", strings.ReplaceAll(post.Description, "\n", " ")})

	for _, m := range meta {
		if _, err := fmt.Fprintf(w, "%s: %s\n", m.key, m.value); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "\n%s", post.Body); err != nil {
		return err
	}
	return nil
}

// writePageContent writes a page source file; pages carry a smaller header.
func writePageContent(page *entity.Page, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Title: %s\nDate: %s\nModified: %s\nSlug: %s\n",
		page.Title, page.Created.Format(metaTimeLayout), page.Updated.Format(metaTimeLayout), page.Slug); err != nil {
		return err
	}
	if page.Heading != "" {
		if _, err := fmt.Fprintf(w, "Heading: %s\n", page.Heading); err != nil {
			return err
		}
	}
	if page.Lang != "" {
		if _, err := fmt.Fprintf(w, "Lang: %s\n", page.Lang); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "\n%s", page.Body); err != nil {
		return err
	}
	return nil
}
