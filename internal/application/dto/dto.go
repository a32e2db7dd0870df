package dto

import (
	"time"

	"github.com/google/uuid"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SaveSiteRequest struct {
	Domain        string      `json:"domain"`
	Path          string      `json:"path"`
	Lang          string      `json:"lang"`
	Timezone      string      `json:"timezone"`
	Title         string      `json:"title"`
	Subtitle      string      `json:"subtitle"`
	Logo          string      `json:"logo"`
	Heading       string      `json:"heading"`
	AllowCrawlers bool        `json:"allowCrawlers"`
	AllowTraining bool        `json:"allowTraining"`
	Engine        string      `json:"engine"`
	Deployment    string      `json:"deployment"`
	Secure        bool        `json:"secure"`
	Staff         []uuid.UUID `json:"staff,omitempty"`
}

type SiteResponse struct {
	ID         uint64    `json:"id"`
	Domain     string    `json:"domain"`
	Path       string    `json:"path"`
	Title      string    `json:"title"`
	Engine     string    `json:"engine"`
	Deployment string    `json:"deployment"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	Links      []LinkDTO `json:"links,omitempty"`
}

type LinkDTO struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// SavePostRequest carries BaseUpdated, the Updated timestamp the client loaded
// before editing. A mismatch with the stored row means a concurrent edit and
// the save is rejected.
type SavePostRequest struct {
	Slug          string     `json:"slug"`
	Title         string     `json:"title"`
	Lang          string     `json:"lang"`
	Body          string     `json:"body"`
	Heading       string     `json:"heading"`
	Draft         bool       `json:"draft"`
	CategoryID    *uint64    `json:"categoryId,omitempty"`
	AuthorName    string     `json:"authorName,omitempty"`
	Description   string     `json:"description,omitempty"`
	Punchline     string     `json:"punchline,omitempty"`
	Broadcast     bool       `json:"broadcast"`
	TranslationOf *uint64    `json:"translationOf,omitempty"`
	BaseUpdated   *time.Time `json:"baseUpdated,omitempty"`
	Publish       bool       `json:"publish"`
}

type SavePageRequest struct {
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Lang        string     `json:"lang"`
	Body        string     `json:"body"`
	Heading     string     `json:"heading"`
	BaseUpdated *time.Time `json:"baseUpdated,omitempty"`
}

type ContentResponse struct {
	ID        uint64    `json:"id"`
	SiteID    uint64    `json:"siteId"`
	Kind      string    `json:"kind"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Lang      string    `json:"lang"`
	Body      string    `json:"body"`
	Draft     bool      `json:"draft"`
	URL       string    `json:"url,omitempty"`
	Created   time.Time `json:"created"`
	Updated   time.Time `json:"updated"`
	EditCount int       `json:"editCount"`
}

type PublishRequest struct {
	Force  bool    `json:"force"`
	Purge  bool    `json:"purge"`
	PostID *uint64 `json:"postId,omitempty"`
}

type PublishResponse struct {
	ID       uint64     `json:"id"`
	SiteID   uint64     `json:"siteId"`
	PostID   *uint64    `json:"postId,omitempty"`
	Force    bool       `json:"force"`
	Purge    bool       `json:"purge"`
	Running  bool       `json:"running"`
	Started  time.Time  `json:"started"`
	Finished *time.Time `json:"finished,omitempty"`
	Success  *bool      `json:"success,omitempty"`
	Message  string     `json:"message,omitempty"`
}
