package db

import (
	"time"

	"github.com/blogward/blogward-backend/internal/application/consts"
	"github.com/google/uuid"
)

type Site struct {
	ID            uint64    `db:"id"`
	Domain        string    `db:"domain"`
	Path          string    `db:"path"`
	AdminID       uuid.UUID `db:"admin_id"`
	Lang          string    `db:"lang"`
	Timezone      string    `db:"timezone"`
	Title         string    `db:"title"`
	Subtitle      string    `db:"subtitle"`
	Logo          string    `db:"logo"`
	Heading       string    `db:"heading"`
	AllowCrawlers bool      `db:"allow_crawlers"`
	AllowTraining bool      `db:"allow_training"`
	Engine        string    `db:"engine"`
	Deployment    string    `db:"deployment"`
	Secure        bool      `db:"secure"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// Content is the single-table representation of posts and pages, discriminated
// by kind. Post-only columns stay NULL on page rows.
type Content struct {
	ID            uint64             `db:"id"`
	SiteID        uint64             `db:"site_id"`
	Kind          consts.ContentKind `db:"kind"`
	Slug          string             `db:"slug"`
	Title         string             `db:"title"`
	Lang          string             `db:"lang"`
	Body          string             `db:"body"`
	Heading       string             `db:"heading"`
	Created       time.Time          `db:"created"`
	Updated       time.Time          `db:"updated"`
	EditCount     int                `db:"edit_count"`
	WordDelta     int                `db:"word_delta"`
	Draft         *bool              `db:"draft"`
	CategoryID    *uint64            `db:"category_id"`
	AuthorID      *uuid.UUID         `db:"author_id"`
	AuthorName    *string            `db:"author_name"`
	TranslationOf *uint64            `db:"translation_of"`
	Description   *string            `db:"description"`
	Punchline     *string            `db:"punchline"`
	Broadcast     *bool              `db:"broadcast"`
}

type Category struct {
	ID     uint64 `db:"id"`
	SiteID uint64 `db:"site_id"`
	Slug   string `db:"slug"`
	Name   string `db:"name"`
}

type Link struct {
	ID     uint64 `db:"id"`
	SiteID uint64 `db:"site_id"`
	Title  string `db:"title"`
	URL    string `db:"url"`
}

type Publish struct {
	ID       uint64     `db:"id"`
	SiteID   uint64     `db:"site_id"`
	PostID   *uint64    `db:"post_id"`
	Force    bool       `db:"force"`
	Purge    bool       `db:"purge"`
	Started  time.Time  `db:"started"`
	Finished *time.Time `db:"finished"`
	Success  *bool      `db:"success"`
	Message  string     `db:"message"`
}
