package publish

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/blogward/blogward-backend/internal/application/consts"
	"github.com/blogward/blogward-backend/internal/application/errs"
	"github.com/blogward/blogward-backend/internal/domain/entity"
	"github.com/blogward/blogward-backend/internal/infra/db"
	"github.com/blogward/blogward-backend/internal/infra/db/repo"
	dbs "github.com/blogward/blogward-backend/pkg/db"
	"github.com/google/uuid"
)

// RequestOptions are the flags a caller sets on admission. PostID selects the
// single-content incremental path.
type RequestOptions struct {
	Force  bool
	Purge  bool
	PostID *uint64
}

// Orchestrator admits at most one publish run per site, executes render then
// deploy on a worker pool and records every outcome in the ledger.
type Orchestrator struct {
	cfg        *Config
	uowFactory *dbs.UOWFactory
	engines    *EngineRegistry
	deployers  *DeployerRegistry
	pool       *Pool
}

func NewOrchestrator(cfg *Config, uowFactory *dbs.UOWFactory, engines *EngineRegistry, deployers *DeployerRegistry) *Orchestrator {
	o := &Orchestrator{
		cfg:        cfg,
		uowFactory: uowFactory,
		engines:    engines,
		deployers:  deployers,
	}
	o.pool = NewPool(cfg.Workers, cfg.QueueSize, o.Execute)
	return o
}

func (o *Orchestrator) Stop() {
	o.pool.Stop()
}

// RequestPublish admits a run and hands it to the pool. It returns the created
// record immediately; execution is asynchronous. A run already in flight for
// the site is reported as AlreadyRunningError, which callers may treat as
// "poll the running record" rather than a failure.
func (o *Orchestrator) RequestPublish(ctx context.Context, siteID uint64, initiator uuid.UUID, opts RequestOptions) (*entity.Publish, error) {
	uow := o.uowFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return nil, err
	}

	siteRepo := repo.NewSiteRepo(tx)
	site, err := siteRepo.GetByID(ctx, siteID)
	if err != nil {
		_ = uow.Rollback()
		return nil, fmt.Errorf("err loading site %d, %v", siteID, err)
	}

	model := &db.Publish{
		SiteID:  siteID,
		PostID:  opts.PostID,
		Force:   opts.Force,
		Purge:   opts.Purge,
		Started: time.Now(),
	}
	publishRepo := repo.NewPublishRepo(tx)
	admitted, err := publishRepo.InsertIfIdle(ctx, model, o.cfg.Window)
	if err != nil {
		_ = uow.Rollback()
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	if !admitted {
		return nil, errs.AlreadyRunningError{SiteURN: site.Domain + site.Path}
	}

	slog.Info("Admitted publish", "id", model.ID, "site", site.Domain+site.Path,
		"initiator", initiator, "force", opts.Force, "purge", opts.Purge)
	o.pool.Submit(model.ID)

	return db.MapPublishModelToEntity(*model), nil
}

// Execute runs one admitted publish to its terminal state. Every failure is
// downgraded to a recorded run failure; nothing escapes to the worker.
func (o *Orchestrator) Execute(ctx context.Context, publishID uint64) {
	run, err := o.loadRun(ctx, publishID)
	if err != nil {
		slog.Error("err loading publish run", "id", publishID, "err", err)
		o.finish(ctx, publishID, err)
		return
	}

	err = o.executeRun(ctx, run)
	if err != nil {
		slog.Error("publish failed", "id", publishID, "site", run.site.URN(), "err", err)
	} else {
		slog.Info("publish succeeded", "id", publishID, "site", run.site.URN())
	}
	o.finish(ctx, publishID, err)
}

type publishRun struct {
	publish     *entity.Publish
	site        *entity.Site
	post        *entity.Post
	posts       []entity.Post
	pages       []entity.Page
	lastSuccess *time.Time
}

func (o *Orchestrator) loadRun(ctx context.Context, publishID uint64) (*publishRun, error) {
	uow := o.uowFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback()
	}()

	publishRepo := repo.NewPublishRepo(tx)
	model, err := publishRepo.GetByID(ctx, publishID)
	if err != nil {
		return nil, fmt.Errorf("err loading publish %d, %v", publishID, err)
	}

	siteRepo := repo.NewSiteRepo(tx)
	siteModel, err := siteRepo.GetByID(ctx, model.SiteID)
	if err != nil {
		return nil, fmt.Errorf("err loading site %d, %v", model.SiteID, err)
	}
	staff, err := siteRepo.GetStaff(ctx, model.SiteID)
	if err != nil {
		return nil, err
	}
	links, err := siteRepo.Links(ctx, model.SiteID)
	if err != nil {
		return nil, err
	}

	run := &publishRun{
		publish: db.MapPublishModelToEntity(*model),
		site:    db.MapSiteModelToEntity(*siteModel, staff),
	}
	for _, link := range links {
		run.site.Links = append(run.site.Links,
			entity.Link{ID: link.ID, SiteID: link.SiteID, Title: link.Title, URL: link.URL})
	}

	contentRepo := repo.NewContentRepo(tx)
	if model.PostID != nil {
		run.post, err = o.loadPost(ctx, contentRepo, *model.PostID, model.SiteID)
		if err != nil {
			return nil, err
		}
	} else if model.Force {
		// force rewrites every content item's source file
		run.posts, run.pages, err = o.loadAllContent(ctx, contentRepo, model.SiteID)
		if err != nil {
			return nil, err
		}
	}

	last, err := publishRepo.LastSuccessful(ctx, model.SiteID)
	if err != nil {
		return nil, err
	}
	if last != nil {
		run.lastSuccess = last.Finished
	}

	return run, nil
}

// loadPost refuses content that is not a post of the publishing site, so a run
// can never render another tenant's content into this site's tree.
func (o *Orchestrator) loadPost(ctx context.Context, contentRepo *repo.ContentRepo, postID, siteID uint64) (*entity.Post, error) {
	model, err := contentRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("err loading post %d, %v", postID, err)
	}
	if model.SiteID != siteID || model.Kind != consts.KindPost {
		return nil, fmt.Errorf("post %d does not belong to site %d", postID, siteID)
	}
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

func (o *Orchestrator) loadAllContent(ctx context.Context, contentRepo *repo.ContentRepo, siteID uint64) ([]entity.Post, []entity.Page, error) {
	postModels, err := contentRepo.ListBySite(ctx, siteID, consts.KindPost)
	if err != nil {
		return nil, nil, err
	}
	var posts []entity.Post
	for _, model := range postModels {
		post, err := o.loadPost(ctx, contentRepo, model.ID, siteID)
		if err != nil {
			return nil, nil, err
		}
		posts = append(posts, *post)
	}

	pageModels, err := contentRepo.ListBySite(ctx, siteID, consts.KindPage)
	if err != nil {
		return nil, nil, err
	}
	var pages []entity.Page
	for _, model := range pageModels {
		pages = append(pages, *db.MapContentModelToPage(model))
	}
	return posts, pages, nil
}

// executeRun is the failure boundary: any error, including a panicking engine
// or deployer, comes back as the run's recorded failure.
func (o *Orchestrator) executeRun(ctx context.Context, run *publishRun) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("publish run panicked: %v", r)
		}
	}()

	engine, err := o.engines.Get(run.site.Engine)
	if err != nil {
		return err
	}
	deployer, err := o.deployers.Get(run.site.Deployment)
	if err != nil {
		return err
	}
	if !deployer.Available() {
		return errs.DeployError{Err: fmt.Errorf("deployer %q is unavailable", run.site.Deployment)}
	}

	opts := Options{
		Force:       run.publish.Force,
		Purge:       run.publish.Purge,
		LastSuccess: run.lastSuccess,
	}

	if run.post != nil {
		if err := engine.Render(ctx, run.site, run.post, nil, opts); err != nil {
			return errs.RenderError{Err: err}
		}
		if err := deployer.Deploy(ctx, run.site, run.post, nil, opts); err != nil {
			return errs.DeployError{Err: err}
		}
		return nil
	}

	if run.publish.Force {
		for i := range run.posts {
			if err := engine.WritePost(run.site, &run.posts[i]); err != nil {
				return errs.RenderError{Err: err}
			}
		}
		for i := range run.pages {
			if err := engine.WritePage(run.site, &run.pages[i]); err != nil {
				return errs.RenderError{Err: err}
			}
		}
	}

	if err := engine.Render(ctx, run.site, nil, nil, opts); err != nil {
		return errs.RenderError{Err: err}
	}
	if err := deployer.Deploy(ctx, run.site, nil, nil, opts); err != nil {
		return errs.DeployError{Err: err}
	}
	return nil
}

// finish always moves the record into a terminal state, whatever happened.
func (o *Orchestrator) finish(ctx context.Context, publishID uint64, runErr error) {
	uow := o.uowFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		slog.Error("err opening tx to finish publish", "id", publishID, "err", err)
		return
	}

	message := ""
	if runErr != nil {
		message = runErr.Error()
	}
	publishRepo := repo.NewPublishRepo(tx)
	if err := publishRepo.Finish(ctx, publishID, time.Now(), runErr == nil, message); err != nil {
		slog.Error("err finishing publish", "id", publishID, "err", err)
		_ = uow.Rollback()
		return
	}
	if err := uow.Commit(); err != nil {
		slog.Error("err committing publish finish", "id", publishID, "err", err)
	}
}

// IsRunning reports whether a publish for the site is in flight within the
// staleness window. Used by admission and by UI polling.
func (o *Orchestrator) IsRunning(ctx context.Context, siteID uint64) (bool, error) {
	uow := o.uowFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return false, err
	}
	defer func() {
		_ = uow.Rollback()
	}()
	return repo.NewPublishRepo(tx).IsRunning(ctx, siteID, o.cfg.Window)
}

// LastSuccessful returns the most recent successful run for the site, nil when
// there was none yet.
func (o *Orchestrator) LastSuccessful(ctx context.Context, siteID uint64) (*entity.Publish, error) {
	uow := o.uowFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback()
	}()
	model, err := repo.NewPublishRepo(tx).LastSuccessful(ctx, siteID)
	if err != nil || model == nil {
		return nil, err
	}
	return db.MapPublishModelToEntity(*model), nil
}
