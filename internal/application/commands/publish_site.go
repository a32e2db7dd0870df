package commands

import (
	"context"
	"fmt"

	"github.com/blogward/blogward-backend/internal/application/consts"
	"github.com/blogward/blogward-backend/internal/application/dto"
	"github.com/blogward/blogward-backend/internal/domain/entity"
	"github.com/blogward/blogward-backend/internal/infra/db/repo"
	"github.com/blogward/blogward-backend/internal/publish"
	dbs "github.com/blogward/blogward-backend/pkg/db"
	"github.com/google/uuid"
)

// PublishSite checks the caller may edit the site, then hands the request to
// the orchestrator for admission.
type PublishSite struct {
	*dbs.UOWFactory
	orchestrator *publish.Orchestrator
}

func NewPublishSite(factory *dbs.UOWFactory, orchestrator *publish.Orchestrator) *PublishSite {
	return &PublishSite{UOWFactory: factory, orchestrator: orchestrator}
}

func (c *PublishSite) Execute(ctx context.Context, siteID uint64, req *dto.PublishRequest, identity uuid.UUID) (*entity.Publish, error) {
	uow := c.UOWFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return nil, err
	}
	_, err = loadSite(ctx, tx, siteID, identity)
	if err != nil {
		_ = uow.Rollback()
		return nil, err
	}
	if req.PostID != nil {
		model, err := repo.NewContentRepo(tx).GetByID(ctx, *req.PostID)
		if err != nil {
			_ = uow.Rollback()
			return nil, err
		}
		if model.SiteID != siteID || model.Kind != consts.KindPost {
			_ = uow.Rollback()
			return nil, fmt.Errorf("post %d does not belong to site %d", *req.PostID, siteID)
		}
	}
	_ = uow.Rollback()

	return c.orchestrator.RequestPublish(ctx, siteID, identity, publish.RequestOptions{
		Force:  req.Force,
		Purge:  req.Purge,
		PostID: req.PostID,
	})
}
