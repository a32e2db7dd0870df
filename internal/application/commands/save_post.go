package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/blogward/blogward-backend/internal/application/consts"
	"github.com/blogward/blogward-backend/internal/application/dto"
	"github.com/blogward/blogward-backend/internal/application/errs"
	"github.com/blogward/blogward-backend/internal/domain/entity"
	"github.com/blogward/blogward-backend/internal/infra/db"
	"github.com/blogward/blogward-backend/internal/infra/db/repo"
	"github.com/blogward/blogward-backend/internal/publish"
	dbs "github.com/blogward/blogward-backend/pkg/db"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SavePost stores a post revision, refreshes its generator source file and
// optionally kicks off an incremental publish of just that post.
type SavePost struct {
	*dbs.UOWFactory
	engines      *publish.EngineRegistry
	orchestrator *publish.Orchestrator
}

func NewSavePost(factory *dbs.UOWFactory, engines *publish.EngineRegistry, orchestrator *publish.Orchestrator) *SavePost {
	return &SavePost{UOWFactory: factory, engines: engines, orchestrator: orchestrator}
}

func (c *SavePost) Execute(ctx context.Context, siteID uint64, postID *uint64, req *dto.SavePostRequest, identity uuid.UUID) (uint64, error) {
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
		SiteID:        siteID,
		Kind:          consts.KindPost,
		Slug:          req.Slug,
		Title:         req.Title,
		Lang:          req.Lang,
		Body:          req.Body,
		Heading:       req.Heading,
		Updated:       now,
		Draft:         &req.Draft,
		CategoryID:    req.CategoryID,
		AuthorID:      &identity,
		AuthorName:    &req.AuthorName,
		TranslationOf: req.TranslationOf,
		Description:   &req.Description,
		Punchline:     &req.Punchline,
		Broadcast:     &req.Broadcast,
	}

	if postID == nil {
		model.Created = now
		id, err := contentRepo.Insert(ctx, model)
		if err != nil {
			_ = uow.Rollback()
			return 0, err
		}
		model.ID = id
	} else {
		existing, err := contentRepo.GetByID(ctx, *postID)
		if err != nil {
			_ = uow.Rollback()
			return 0, err
		}
		if existing.SiteID != siteID || existing.Kind != consts.KindPost {
			_ = uow.Rollback()
			return 0, fmt.Errorf("post %d does not belong to site %d", *postID, siteID)
		}
		current := db.MapContentModelToPost(*existing, nil)
		if req.BaseUpdated != nil && current.Stale(*req.BaseUpdated) {
			_ = uow.Rollback()
			return 0, errs.StaleEditError{Slug: current.Slug}
		}
		current.CountEdit(req.Body)

		model.ID = *postID
		model.Created = existing.Created
		model.EditCount = current.EditCount
		model.WordDelta = current.WordDelta
		model.AuthorID = existing.AuthorID
		if err := contentRepo.Update(ctx, model); err != nil {
			_ = uow.Rollback()
			return 0, err
		}
	}

	post, err := loadPostEntity(ctx, contentRepo, model)
	if err != nil {
		_ = uow.Rollback()
		return 0, err
	}
	if err := uow.Commit(); err != nil {
		return 0, err
	}

	engine, err := c.engines.Get(site.Engine)
	if err != nil {
		return 0, err
	}
	if err := engine.WritePost(site, post); err != nil {
		return 0, err
	}

	if req.Publish && !post.Draft {
		_, err := c.orchestrator.RequestPublish(ctx, siteID, identity, publish.RequestOptions{PostID: &model.ID})
		var running errs.AlreadyRunningError
		if errors.As(err, &running) {
			slog.Info("Publish already in flight, post will go out with it", "site", site.URN(), "post", model.ID)
		} else if err != nil {
			return 0, err
		}
	}

	slog.Info("Saved post", "id", model.ID, "site", site.URN(), "slug", model.Slug)
	return model.ID, nil
}

func loadSite(ctx context.Context, tx pgx.Tx, siteID uint64, identity uuid.UUID) (*entity.Site, error) {
	siteRepo := repo.NewSiteRepo(tx)
	model, err := siteRepo.GetByID(ctx, siteID)
	if err != nil {
		return nil, err
	}
	staff, err := siteRepo.GetStaff(ctx, siteID)
	if err != nil {
		return nil, err
	}
	site := db.MapSiteModelToEntity(*model, staff)
	if !site.CanEdit(identity) {
		return nil, errs.PermissionError{SiteURN: site.URN()}
	}
	return site, nil
}

func loadPostEntity(ctx context.Context, contentRepo *repo.ContentRepo, model *db.Content) (*entity.Post, error) {
	var category *entity.Category
	if model.CategoryID != nil {
		categoryModel, err := contentRepo.GetCategory(ctx, *model.CategoryID)
		if err != nil {
			return nil, err
		}
		category = &entity.Category{ID: categoryModel.ID, SiteID: categoryModel.SiteID,
			Slug: categoryModel.Slug, Name: categoryModel.Name}
	}
	return db.MapContentModelToPost(*model, category), nil
}
