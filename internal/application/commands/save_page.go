package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/blogward/blogward-backend/internal/application/consts"
	"github.com/blogward/blogward-backend/internal/application/dto"
	"github.com/blogward/blogward-backend/internal/application/errs"
	"github.com/blogward/blogward-backend/internal/infra/db"
	"github.com/blogward/blogward-backend/internal/infra/db/repo"
	"github.com/blogward/blogward-backend/internal/publish"
	dbs "github.com/blogward/blogward-backend/pkg/db"
	"github.com/google/uuid"
)

// SavePage stores a page revision and refreshes its generator source file.
// Pages never auto-publish, they go out with the next site run.
type SavePage struct {
	*dbs.UOWFactory
	engines *publish.EngineRegistry
}

func NewSavePage(factory *dbs.UOWFactory, engines *publish.EngineRegistry) *SavePage {
	return &SavePage{UOWFactory: factory, engines: engines}
}

func (c *SavePage) Execute(ctx context.Context, siteID uint64, pageID *uint64, req *dto.SavePageRequest, identity uuid.UUID) (uint64, error) {
	uow := c.UOWFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return 0, err
	}

	site, err := loadSite(ctx, tx, siteID, identity)
	if err != nil {
		_ = uow.Rollback()
		return 0, err
	}

	contentRepo := repo.NewContentRepo(tx)
	now := time.Now()
	model := &db.Content{
		SiteID:  siteID,
		Kind:    consts.KindPage,
		Slug:    req.Slug,
		Title:   req.Title,
		Lang:    req.Lang,
		Body:    req.Body,
		Heading: req.Heading,
		Updated: now,
	}

	if pageID == nil {
		model.Created = now
		id, err := contentRepo.Insert(ctx, model)
		if err != nil {
			_ = uow.Rollback()
			return 0, err
		}
		model.ID = id
	} else {
		existing, err := contentRepo.GetByID(ctx, *pageID)
		if err != nil {
			_ = uow.Rollback()
			return 0, err
		}
		if existing.SiteID != siteID || existing.Kind != consts.KindPage {
			_ = uow.Rollback()
			return 0, fmt.Errorf("page %d does not belong to site %d", *pageID, siteID)
		}
		current := db.MapContentModelToPage(*existing)
		if req.BaseUpdated != nil && current.Stale(*req.BaseUpdated) {
			_ = uow.Rollback()
			return 0, errs.StaleEditError{Slug: current.Slug}
		}
		current.CountEdit(req.Body)

		model.ID = *pageID
		model.Created = existing.Created
		model.EditCount = current.EditCount
		model.WordDelta = current.WordDelta
		if err := contentRepo.Update(ctx, model); err != nil {
			_ = uow.Rollback()
			return 0, err
		}
	}
	if err := uow.Commit(); err != nil {
		return 0, err
	}

	engine, err := c.engines.Get(site.Engine)
	if err != nil {
		return 0, err
	}
	if err := engine.WritePage(site, db.MapContentModelToPage(*model)); err != nil {
		return 0, err
	}

	slog.Info("Saved page", "id", model.ID, "site", site.URN(), "slug", model.Slug)
	return model.ID, nil
}
