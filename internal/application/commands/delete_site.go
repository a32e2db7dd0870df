package commands

import (
	"context"
	"log/slog"

	"github.com/blogward/blogward-backend/internal/application/errs"
	"github.com/blogward/blogward-backend/internal/infra/db"
	"github.com/blogward/blogward-backend/internal/infra/db/repo"
	"github.com/blogward/blogward-backend/internal/publish"
	dbs "github.com/blogward/blogward-backend/pkg/db"
	"github.com/google/uuid"
)

// DeleteSite tears a site down: rendered output, deployer destination and
// finally the database rows. Content and ledger rows go with the site through
// cascading foreign keys.
type DeleteSite struct {
	*dbs.UOWFactory
	engines   *publish.EngineRegistry
	deployers *publish.DeployerRegistry
}

func NewDeleteSite(factory *dbs.UOWFactory, engines *publish.EngineRegistry, deployers *publish.DeployerRegistry) *DeleteSite {
	return &DeleteSite{UOWFactory: factory, engines: engines, deployers: deployers}
}

func (c *DeleteSite) Execute(ctx context.Context, siteID uint64, identity uuid.UUID) error {
	uow := c.UOWFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return err
	}
	siteRepo := repo.NewSiteRepo(tx)
	model, err := siteRepo.GetByID(ctx, siteID)
	if err != nil {
		_ = uow.Rollback()
		return err
	}
	site := db.MapSiteModelToEntity(*model, nil)
	// only the admin may remove a site, staff edit rights are not enough
	if site.AdminID != identity {
		_ = uow.Rollback()
		return errs.PermissionError{SiteURN: site.URN()}
	}

	engine, err := c.engines.Get(site.Engine)
	if err != nil {
		_ = uow.Rollback()
		return err
	}
	deployer, err := c.deployers.Get(site.Deployment)
	if err != nil {
		_ = uow.Rollback()
		return err
	}

	if err := deployer.Delete(ctx, site, nil, nil); err != nil {
		_ = uow.Rollback()
		return err
	}
	if err := engine.Delete(site, nil, nil); err != nil {
		_ = uow.Rollback()
		return err
	}

	if err := siteRepo.Delete(ctx, siteID); err != nil {
		_ = uow.Rollback()
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	slog.Info("Deleted site", "id", siteID, "urn", site.URN())
	return nil
}
