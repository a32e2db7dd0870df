package publish

import (
	"context"
	"time"

	"github.com/blogward/blogward-backend/internal/domain/entity"
)

// Options carries the per-run flags through render and deploy. LastSuccess is
// the finished timestamp of the site's last successful run, used by
// incremental deployers to skip files older than it; nil means upload
// everything.
type Options struct {
	Force       bool
	Purge       bool
	LastSuccess *time.Time
}

// RenderEngine turns content records into generator source files and static
// output. Side effects are confined to the site's source and output
// directories, both derived from the site URN so no two sites collide.
//
// At most one of post/page may be set on Render and Delete; with neither set
// the call applies to the whole site.
type RenderEngine interface {
	// EnsureDirs creates the site's source and output directories. Called on
	// site save, idempotent.
	EnsureDirs(site *entity.Site) error

	// WritePost and WritePage write a single item's generator source file
	// without running the generator. Cheap, called synchronously from content
	// save hooks.
	WritePost(site *entity.Site, post *entity.Post) error
	WritePage(site *entity.Site, page *entity.Page) error

	// Render produces the static output. With post or page set only that
	// item's source is refreshed before the build; Purge removes the existing
	// output tree first.
	Render(ctx context.Context, site *entity.Site, post *entity.Post, page *entity.Page, opts Options) error

	// Delete removes a single item's source and output files, or the whole
	// output tree when neither is given.
	Delete(site *entity.Site, post *entity.Post, page *entity.Page) error

	// Pure path and URL derivation, no side effects.
	OutputPath(site *entity.Site) string
	PostOutputPath(site *entity.Site, post *entity.Post) string
	PageOutputPath(site *entity.Site, page *entity.Page) string
	PostURL(site *entity.Site, post *entity.Post, absolute bool) string
	PageURL(site *entity.Site, page *entity.Page, absolute bool) string
}

// Deployer moves rendered output to its public destination. Single-item mode
// uploads exactly one artifact; full-site mode enumerates the output root and
// uses Options.LastSuccess for incremental sync.
type Deployer interface {
	// Register performs the idempotent per-site destination setup (a routing
	// rule, a bucket). Called on site save and before every deploy.
	Register(ctx context.Context, site *entity.Site) error

	Deploy(ctx context.Context, site *entity.Site, post *entity.Post, page *entity.Page, opts Options) error

	// Delete removes a single artifact, or the whole destination when neither
	// post nor page is given.
	Delete(ctx context.Context, site *entity.Site, post *entity.Post, page *entity.Page) error

	// Available reports whether the destination answered the startup probe.
	// An unavailable deployer fails runs instead of crashing startup.
	Available() bool
}
