package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Content holds the fields shared between posts and pages. Post and Page embed
// it instead of inheriting from it.
type Content struct {
	ID     uint64
	SiteID uint64
	Slug   string
	Title  string
	Lang   string
	Body   string

	// Heading is an optional heading image path, copied next to the rendered
	// output on save.
	Heading string

	Created time.Time
	Updated time.Time

	EditCount int
	WordDelta int
}

// Stale reports whether an edit carrying the supplied timestamp was based on
// an outdated revision of this content.
func (c *Content) Stale(supplied time.Time) bool {
	return c.Updated.After(supplied)
}

// CountEdit bumps the edit counters given the new body about to be saved.
func (c *Content) CountEdit(newBody string) {
	c.EditCount++
	c.WordDelta += len(strings.Fields(newBody)) - len(strings.Fields(c.Body))
}

// Post is a time-ordered piece of content.
type Post struct {
	Content

	Draft         bool
	Category      *Category
	AuthorID      *uuid.UUID
	AuthorName    string
	TranslationOf *uint64
	Description   string
	Punchline     string
	Broadcast     bool
}

// Page is a static document such as "about".
type Page struct {
	Content
}

// Category groups posts within one site, unique by slug per site.
type Category struct {
	ID     uint64
	SiteID uint64
	Slug   string
	Name   string
}

// Link is a site menu item rendered by the engine.
type Link struct {
	ID     uint64
	SiteID uint64
	Title  string
	URL    string
}
