package commands_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/blogward/blogward-backend/internal/application/commands"
	"github.com/blogward/blogward-backend/internal/application/consts"
	"github.com/blogward/blogward-backend/internal/application/errs"
	"github.com/blogward/blogward-backend/internal/domain/entity"
	"github.com/blogward/blogward-backend/internal/publish"
	"github.com/blogward/blogward-backend/internal/testinfra"
	dbs "github.com/blogward/blogward-backend/pkg/db"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const nopID = "nop"

// nopEngine and nopDeployer satisfy the registries with no side effects beyond
// counting deletions.
type nopEngine struct{ deletes int }

var _ publish.RenderEngine = (*nopEngine)(nil)

func (n *nopEngine) EnsureDirs(*entity.Site) error              { return nil }
func (n *nopEngine) WritePost(*entity.Site, *entity.Post) error { return nil }
func (n *nopEngine) WritePage(*entity.Site, *entity.Page) error { return nil }
func (n *nopEngine) Render(context.Context, *entity.Site, *entity.Post, *entity.Page, publish.Options) error {
	return nil
}
func (n *nopEngine) Delete(*entity.Site, *entity.Post, *entity.Page) error {
	n.deletes++
	return nil
}
func (n *nopEngine) OutputPath(site *entity.Site) string { return "/tmp/out/" + site.URN() }
func (n *nopEngine) PostOutputPath(site *entity.Site, post *entity.Post) string {
	return n.OutputPath(site) + "/" + post.Slug + ".html"
}
func (n *nopEngine) PageOutputPath(site *entity.Site, page *entity.Page) string {
	return n.OutputPath(site) + "/pages/" + page.Slug + ".html"
}
func (n *nopEngine) PostURL(_ *entity.Site, post *entity.Post, _ bool) string {
	return post.Slug + ".html"
}
func (n *nopEngine) PageURL(_ *entity.Site, page *entity.Page, _ bool) string {
	return "pages/" + page.Slug + ".html"
}

type nopDeployer struct{ deletes int }

var _ publish.Deployer = (*nopDeployer)(nil)

func (n *nopDeployer) Register(context.Context, *entity.Site) error { return nil }
func (n *nopDeployer) Deploy(context.Context, *entity.Site, *entity.Post, *entity.Page, publish.Options) error {
	return nil
}
func (n *nopDeployer) Delete(context.Context, *entity.Site, *entity.Post, *entity.Page) error {
	n.deletes++
	return nil
}
func (n *nopDeployer) Available() bool { return true }

func newDeleteContent(engine *nopEngine, deployer *nopDeployer) *commands.DeleteContent {
	engines := publish.NewEngineRegistry()
	engines.Register(nopID, engine)
	deployers := publish.NewDeployerRegistry()
	deployers.Register(nopID, deployer)
	return commands.NewDeleteContent(dbs.NewUoWFactory(testinfra.Pool), engines, deployers)
}

var siteSeq int

func insertSite(t *testing.T, admin uuid.UUID) uint64 {
	t.Helper()
	siteSeq++
	var id uint64
	err := testinfra.Pool.QueryRow(context.Background(),
		`INSERT INTO blogward.sites (domain, path, admin_id, lang, timezone, title, subtitle, logo,
			heading, allow_crawlers, allow_training, engine, deployment, secure, created_at, updated_at)
		 VALUES ($1,'',$2,'en','UTC','','','','',TRUE,TRUE,$3,$3,TRUE,now(),now()) RETURNING id`,
		fmt.Sprintf("cmd-%d.test", siteSeq), admin, nopID,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func insertPost(t *testing.T, siteID uint64, slug string) uint64 {
	t.Helper()
	var id uint64
	err := testinfra.Pool.QueryRow(context.Background(),
		`INSERT INTO blogward.contents (site_id, kind, slug, title, lang, body, created, updated, draft)
		 VALUES ($1,$2,$3,$3,'en','body',now(),now(),FALSE) RETURNING id`,
		siteID, consts.KindPost, slug,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestDeleteContentRejectsForeignSiteContent(t *testing.T) {
	admin := uuid.New()
	ownSite := insertSite(t, admin)
	otherSite := insertSite(t, uuid.New())
	foreignPost := insertPost(t, otherSite, "not-yours")

	engine := &nopEngine{}
	deployer := &nopDeployer{}
	cmd := newDeleteContent(engine, deployer)

	err := cmd.Execute(context.Background(), ownSite, foreignPost, admin)
	require.ErrorContains(t, err, "does not belong")
	require.Zero(t, engine.deletes)
	require.Zero(t, deployer.deletes)

	var count int
	require.NoError(t, testinfra.Pool.QueryRow(context.Background(),
		"SELECT count(*) FROM blogward.contents WHERE id = $1", foreignPost).Scan(&count))
	require.Equal(t, 1, count, "the other site's row survives")
}

func TestDeleteContentRemovesOwnContent(t *testing.T) {
	admin := uuid.New()
	siteID := insertSite(t, admin)
	postID := insertPost(t, siteID, "mine")

	engine := &nopEngine{}
	deployer := &nopDeployer{}
	cmd := newDeleteContent(engine, deployer)

	require.NoError(t, cmd.Execute(context.Background(), siteID, postID, admin))
	require.Equal(t, 1, engine.deletes)
	require.Equal(t, 1, deployer.deletes)

	var count int
	require.NoError(t, testinfra.Pool.QueryRow(context.Background(),
		"SELECT count(*) FROM blogward.contents WHERE id = $1", postID).Scan(&count))
	require.Zero(t, count)
}

func TestDeleteContentRequiresEditRights(t *testing.T) {
	siteID := insertSite(t, uuid.New())
	postID := insertPost(t, siteID, "locked")

	cmd := newDeleteContent(&nopEngine{}, &nopDeployer{})
	err := cmd.Execute(context.Background(), siteID, postID, uuid.New())
	var denied errs.PermissionError
	require.ErrorAs(t, err, &denied)
}
