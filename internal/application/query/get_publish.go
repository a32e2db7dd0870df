package query

import (
	"context"

	"github.com/blogward/blogward-backend/internal/application/dto"
	"github.com/blogward/blogward-backend/internal/infra/db"
	"github.com/blogward/blogward-backend/internal/infra/db/repo"
	"github.com/blogward/blogward-backend/internal/publish"
	dbs "github.com/blogward/blogward-backend/pkg/db"
)

// GetPublish reads one ledger record, used by clients polling a run they
// kicked off.
type GetPublish struct {
	cfg *publish.Config
	*dbs.UOWFactory
}

func NewGetPublish(cfg *publish.Config, factory *dbs.UOWFactory) *GetPublish {
	return &GetPublish{cfg: cfg, UOWFactory: factory}
}

func (q *GetPublish) Query(ctx context.Context, publishID uint64) (dto.PublishResponse, error) {
	uow := q.UOWFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return dto.PublishResponse{}, err
	}
	defer func() {
		_ = uow.Rollback()
	}()

	model, err := repo.NewPublishRepo(tx).GetByID(ctx, publishID)
	if err != nil {
		return dto.PublishResponse{}, err
	}
	record := db.MapPublishModelToEntity(*model)

	return dto.PublishResponse{
		ID:       record.ID,
		SiteID:   record.SiteID,
		PostID:   record.PostID,
		Force:    record.Force,
		Purge:    record.Purge,
		Running:  record.Running(q.cfg.Window),
		Started:  record.Started,
		Finished: record.Finished,
		Success:  record.Success,
		Message:  record.Message,
	}, nil
}
