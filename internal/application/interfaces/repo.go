package interfaces

import (
	"context"
	"time"

	"github.com/blogward/blogward-backend/internal/application/consts"
	"github.com/blogward/blogward-backend/internal/infra/db"
	"github.com/google/uuid"
)

type SiteRepo interface {
	GetByID(ctx context.Context, id uint64) (*db.Site, error)
	GetByURN(ctx context.Context, domain, path string) (*db.Site, error)
	GetStaff(ctx context.Context, siteID uint64) ([]uuid.UUID, error)
	Insert(ctx context.Context, site *db.Site, staff []uuid.UUID) (uint64, error)
	Update(ctx context.Context, site *db.Site, staff []uuid.UUID) error
	Delete(ctx context.Context, id uint64) error
	ListDomains(ctx context.Context) ([]string, error)
	Links(ctx context.Context, siteID uint64) ([]db.Link, error)
}

type ContentRepo interface {
	GetByID(ctx context.Context, id uint64) (*db.Content, error)
	ListBySite(ctx context.Context, siteID uint64, kind consts.ContentKind) ([]db.Content, error)
	Insert(ctx context.Context, content *db.Content) (uint64, error)
	Update(ctx context.Context, content *db.Content) error
	Delete(ctx context.Context, id uint64) error
	GetCategory(ctx context.Context, id uint64) (*db.Category, error)
}

type PublishRepo interface {
	InsertIfIdle(ctx context.Context, publish *db.Publish, window time.Duration) (bool, error)
	GetByID(ctx context.Context, id uint64) (*db.Publish, error)
	Finish(ctx context.Context, id uint64, finished time.Time, success bool, message string) error
	IsRunning(ctx context.Context, siteID uint64, window time.Duration) (bool, error)
	LastSuccessful(ctx context.Context, siteID uint64) (*db.Publish, error)
}
