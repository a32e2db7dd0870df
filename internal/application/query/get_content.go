package query

import (
	"context"

	"github.com/blogward/blogward-backend/internal/application/consts"
	"github.com/blogward/blogward-backend/internal/application/dto"
	"github.com/blogward/blogward-backend/internal/domain/entity"
	"github.com/blogward/blogward-backend/internal/infra/db"
	"github.com/blogward/blogward-backend/internal/infra/db/repo"
	"github.com/blogward/blogward-backend/internal/publish"
	dbs "github.com/blogward/blogward-backend/pkg/db"
)

// GetContent reads one content item and derives its public URL through the
// site's engine.
type GetContent struct {
	*dbs.UOWFactory
	engines *publish.EngineRegistry
}

func NewGetContent(factory *dbs.UOWFactory, engines *publish.EngineRegistry) *GetContent {
	return &GetContent{UOWFactory: factory, engines: engines}
}

func (q *GetContent) Query(ctx context.Context, contentID uint64) (dto.ContentResponse, error) {
	uow := q.UOWFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return dto.ContentResponse{}, err
	}
	defer func() {
		_ = uow.Rollback()
	}()

	contentRepo := repo.NewContentRepo(tx)
	model, err := contentRepo.GetByID(ctx, contentID)
	if err != nil {
		return dto.ContentResponse{}, err
	}
	siteRepo := repo.NewSiteRepo(tx)
	siteModel, err := siteRepo.GetByID(ctx, model.SiteID)
	if err != nil {
		return dto.ContentResponse{}, err
	}
	site := db.MapSiteModelToEntity(*siteModel, nil)

	resp := dto.ContentResponse{
		ID:        model.ID,
		SiteID:    model.SiteID,
		Kind:      string(model.Kind),
		Slug:      model.Slug,
		Title:     model.Title,
		Lang:      model.Lang,
		Body:      model.Body,
		Created:   model.Created,
		Updated:   model.Updated,
		EditCount: model.EditCount,
	}
	if model.Draft != nil {
		resp.Draft = *model.Draft
	}

	engine, err := q.engines.Get(site.Engine)
	if err != nil {
		return resp, nil
	}
	if model.Kind == consts.KindPost {
		post := db.MapContentModelToPost(*model, nil)
		if model.CategoryID != nil {
			categoryModel, err := contentRepo.GetCategory(ctx, *model.CategoryID)
			if err != nil {
				return dto.ContentResponse{}, err
			}
			post.Category = &entity.Category{ID: categoryModel.ID, SiteID: categoryModel.SiteID,
				Slug: categoryModel.Slug, Name: categoryModel.Name}
		}
		resp.URL = engine.PostURL(site, post, true)
	} else {
		resp.URL = engine.PageURL(site, db.MapContentModelToPage(*model), true)
	}
	return resp, nil
}
