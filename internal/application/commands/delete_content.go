package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/blogward/blogward-backend/internal/application/consts"
	"github.com/blogward/blogward-backend/internal/domain/entity"
	"github.com/blogward/blogward-backend/internal/infra/db"
	"github.com/blogward/blogward-backend/internal/infra/db/repo"
	"github.com/blogward/blogward-backend/internal/publish"
	dbs "github.com/blogward/blogward-backend/pkg/db"
	"github.com/google/uuid"
)

// DeleteContent removes a post or page everywhere: database row, generator
// source file, rendered output and the deployed artifact.
type DeleteContent struct {
	*dbs.UOWFactory
	engines   *publish.EngineRegistry
	deployers *publish.DeployerRegistry
}

func NewDeleteContent(factory *dbs.UOWFactory, engines *publish.EngineRegistry, deployers *publish.DeployerRegistry) *DeleteContent {
	return &DeleteContent{UOWFactory: factory, engines: engines, deployers: deployers}
}

func (c *DeleteContent) Execute(ctx context.Context, siteID, contentID uint64, identity uuid.UUID) error {
	uow := c.UOWFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return err
	}

	site, err := loadSite(ctx, tx, siteID, identity)
	if err != nil {
		_ = uow.Rollback()
		return err
	}

	contentRepo := repo.NewContentRepo(tx)
	model, err := contentRepo.GetByID(ctx, contentID)
	if err != nil {
		_ = uow.Rollback()
		return err
	}
	if model.SiteID != siteID {
		_ = uow.Rollback()
		return fmt.Errorf("content %d does not belong to site %d", contentID, siteID)
	}

	var post *entity.Post
	var page *entity.Page
	if model.Kind == consts.KindPost {
		post = db.MapContentModelToPost(*model, nil)
	} else {
		page = db.MapContentModelToPage(*model)
	}

	if err := contentRepo.Delete(ctx, contentID); err != nil {
		_ = uow.Rollback()
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	engine, err := c.engines.Get(site.Engine)
	if err != nil {
		return err
	}
	if err := engine.Delete(site, post, page); err != nil {
		return err
	}
	deployer, err := c.deployers.Get(site.Deployment)
	if err != nil {
		return err
	}
	if err := deployer.Delete(ctx, site, post, page); err != nil {
		return err
	}

	slog.Info("Deleted content", "id", contentID, "site", site.URN(), "kind", model.Kind)
	return nil
}
