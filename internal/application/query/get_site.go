package query

import (
	"context"

	"github.com/blogward/blogward-backend/internal/application/dto"
	"github.com/blogward/blogward-backend/internal/infra/db/repo"
	dbs "github.com/blogward/blogward-backend/pkg/db"
)

type GetSite struct {
	*dbs.UOWFactory
}

func NewGetSite(factory *dbs.UOWFactory) *GetSite {
	return &GetSite{UOWFactory: factory}
}

func (q *GetSite) Query(ctx context.Context, siteID uint64) (dto.SiteResponse, error) {
	uow := q.UOWFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return dto.SiteResponse{}, err
	}
	defer func() {
		_ = uow.Rollback()
	}()

	siteRepo := repo.NewSiteRepo(tx)
	site, err := siteRepo.GetByID(ctx, siteID)
	if err != nil {
		return dto.SiteResponse{}, err
	}
	links, err := siteRepo.Links(ctx, siteID)
	if err != nil {
		return dto.SiteResponse{}, err
	}

	resp := dto.SiteResponse{
		ID:         site.ID,
		Domain:     site.Domain,
		Path:       site.Path,
		Title:      site.Title,
		Engine:     site.Engine,
		Deployment: site.Deployment,
		CreatedAt:  site.CreatedAt,
		UpdatedAt:  site.UpdatedAt,
	}
	for _, link := range links {
		resp.Links = append(resp.Links, dto.LinkDTO{Title: link.Title, URL: link.URL})
	}
	return resp, nil
}
