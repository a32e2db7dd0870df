package query

import (
	"context"

	"github.com/blogward/blogward-backend/internal/infra/db/repo"
	"github.com/blogward/blogward-backend/internal/publish"
	dbs "github.com/blogward/blogward-backend/pkg/db"
)

// PublishRunning answers whether a site has a publish in flight, so editors
// can grey out the publish button instead of collecting a 409.
type PublishRunning struct {
	cfg *publish.Config
	*dbs.UOWFactory
}

func NewPublishRunning(cfg *publish.Config, factory *dbs.UOWFactory) *PublishRunning {
	return &PublishRunning{cfg: cfg, UOWFactory: factory}
}

func (q *PublishRunning) Query(ctx context.Context, siteID uint64) (bool, error) {
	uow := q.UOWFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return false, err
	}
	defer func() {
		_ = uow.Rollback()
	}()

	return repo.NewPublishRepo(tx).IsRunning(ctx, siteID, q.cfg.Window)
}
