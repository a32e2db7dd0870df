package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/blogward/blogward-backend/internal/application/dto"
	"github.com/blogward/blogward-backend/internal/application/errs"
	"github.com/blogward/blogward-backend/internal/domain/entity"
	"github.com/blogward/blogward-backend/internal/infra/db"
	"github.com/blogward/blogward-backend/internal/infra/db/repo"
	"github.com/blogward/blogward-backend/internal/publish"
	dbs "github.com/blogward/blogward-backend/pkg/db"
	"github.com/google/uuid"
)

// SaveSite creates or updates a site record, prepares the engine directories
// and registers the site with its deployer.
type SaveSite struct {
	*dbs.UOWFactory
	engines   *publish.EngineRegistry
	deployers *publish.DeployerRegistry
}

func NewSaveSite(factory *dbs.UOWFactory, engines *publish.EngineRegistry, deployers *publish.DeployerRegistry) *SaveSite {
	return &SaveSite{UOWFactory: factory, engines: engines, deployers: deployers}
}

func (c *SaveSite) Execute(ctx context.Context, siteID *uint64, req *dto.SaveSiteRequest, identity uuid.UUID) (uint64, error) {
	site := &entity.Site{
		Domain:        req.Domain,
		Path:          req.Path,
		AdminID:       identity,
		Staff:         req.Staff,
		Lang:          req.Lang,
		Timezone:      req.Timezone,
		Title:         req.Title,
		Subtitle:      req.Subtitle,
		Logo:          req.Logo,
		Heading:       req.Heading,
		AllowCrawlers: req.AllowCrawlers,
		AllowTraining: req.AllowTraining,
		Engine:        req.Engine,
		Deployment:    req.Deployment,
		Secure:        req.Secure,
	}
	if err := site.Normalize(); err != nil {
		return 0, err
	}
	if _, err := c.engines.Get(site.Engine); err != nil {
		return 0, err
	}
	deployer, err := c.deployers.Get(site.Deployment)
	if err != nil {
		return 0, err
	}

	uow := c.UOWFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return 0, err
	}
	siteRepo := repo.NewSiteRepo(tx)

	model := mapSiteEntityToModel(site)
	if siteID == nil {
		model.CreatedAt = time.Now()
		model.UpdatedAt = model.CreatedAt
		id, err := siteRepo.Insert(ctx, model, site.Staff)
		if err != nil {
			_ = uow.Rollback()
			return 0, err
		}
		site.ID = id
	} else {
		existing, err := siteRepo.GetByID(ctx, *siteID)
		if err != nil {
			_ = uow.Rollback()
			return 0, err
		}
		staff, err := siteRepo.GetStaff(ctx, *siteID)
		if err != nil {
			_ = uow.Rollback()
			return 0, err
		}
		current := db.MapSiteModelToEntity(*existing, staff)
		if !current.CanEdit(identity) {
			_ = uow.Rollback()
			return 0, errs.PermissionError{SiteURN: current.URN()}
		}
		site.ID = *siteID
		site.AdminID = current.AdminID
		model.ID = *siteID
		model.AdminID = current.AdminID
		model.CreatedAt = existing.CreatedAt
		model.UpdatedAt = time.Now()
		if err := siteRepo.Update(ctx, model, site.Staff); err != nil {
			_ = uow.Rollback()
			return 0, err
		}
	}
	if err := uow.Commit(); err != nil {
		return 0, err
	}

	engine, _ := c.engines.Get(site.Engine)
	if err := engine.EnsureDirs(site); err != nil {
		return 0, err
	}
	if err := deployer.Register(ctx, site); err != nil {
		return 0, err
	}

	slog.Info("Saved site", "id", site.ID, "urn", site.URN())
	return site.ID, nil
}

func mapSiteEntityToModel(site *entity.Site) *db.Site {
	return &db.Site{
		ID:            site.ID,
		Domain:        site.Domain,
		Path:          site.Path,
		AdminID:       site.AdminID,
		Lang:          site.Lang,
		Timezone:      site.Timezone,
		Title:         site.Title,
		Subtitle:      site.Subtitle,
		Logo:          site.Logo,
		Heading:       site.Heading,
		AllowCrawlers: site.AllowCrawlers,
		AllowTraining: site.AllowTraining,
		Engine:        site.Engine,
		Deployment:    site.Deployment,
		Secure:        site.Secure,
		CreatedAt:     site.CreatedAt,
		UpdatedAt:     site.UpdatedAt,
	}
}
