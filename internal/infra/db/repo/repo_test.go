package repo_test

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/blogward/blogward-backend/internal/application/consts"
	"github.com/blogward/blogward-backend/internal/infra/db"
	"github.com/blogward/blogward-backend/internal/infra/db/repo"
	"github.com/blogward/blogward-backend/internal/testinfra"
	dbs "github.com/blogward/blogward-backend/pkg/db"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

var uowFactory *dbs.UOWFactory

const window = time.Minute

func TestMain(m *testing.M) {
	ctx := context.Background()

	uowFactory = dbs.NewUoWFactory(testinfra.Pool)
	code := m.Run()

	cleanup(ctx)

	os.Exit(code)
}

func insertSite(t *testing.T, tx pgx.Tx, domain string) uint64 {
	t.Helper()
	site := &db.Site{
		Domain:     domain,
		Path:       "",
		AdminID:    uuid.New(),
		Lang:       "en",
		Timezone:   "UTC",
		Engine:     consts.EnginePelican,
		Deployment: consts.DeployerCaddy,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	id, err := repo.NewSiteRepo(tx).Insert(context.Background(), site, nil)
	require.NoError(t, err)
	return id
}

func TestInsertIfIdleAdmitsFirstRun(t *testing.T) {
	uow := uowFactory.GetUoW()
	tx, err := uow.Begin()
	require.NoError(t, err)
	defer uow.Rollback()

	ctx := context.Background()
	siteID := insertSite(t, tx, "admit-first.test")
	publishRepo := repo.NewPublishRepo(tx)

	admitted, err := publishRepo.InsertIfIdle(ctx, &db.Publish{SiteID: siteID, Started: time.Now()}, window)
	require.NoError(t, err)
	require.True(t, admitted)
}

func TestInsertIfIdleRejectsSecondRunInWindow(t *testing.T) {
	uow := uowFactory.GetUoW()
	tx, err := uow.Begin()
	require.NoError(t, err)
	defer uow.Rollback()

	ctx := context.Background()
	siteID := insertSite(t, tx, "admit-second.test")
	publishRepo := repo.NewPublishRepo(tx)

	first := &db.Publish{SiteID: siteID, Started: time.Now()}
	admitted, err := publishRepo.InsertIfIdle(ctx, first, window)
	require.NoError(t, err)
	require.True(t, admitted)

	admitted, err = publishRepo.InsertIfIdle(ctx, &db.Publish{SiteID: siteID, Started: time.Now()}, window)
	require.NoError(t, err)
	require.False(t, admitted, "a running publish must block the second admission")
}

func TestInsertIfIdleIgnoresCrashedRunPastWindow(t *testing.T) {
	uow := uowFactory.GetUoW()
	tx, err := uow.Begin()
	require.NoError(t, err)
	defer uow.Rollback()

	ctx := context.Background()
	siteID := insertSite(t, tx, "admit-crashed.test")
	publishRepo := repo.NewPublishRepo(tx)

	crashed := &db.Publish{SiteID: siteID, Started: time.Now().Add(-2 * window)}
	_, err = tx.Exec(ctx,
		"INSERT INTO blogward.publishes (site_id, started, message) VALUES ($1,$2,'')",
		crashed.SiteID, crashed.Started)
	require.NoError(t, err)

	admitted, err := publishRepo.InsertIfIdle(ctx, &db.Publish{SiteID: siteID, Started: time.Now()}, window)
	require.NoError(t, err)
	require.True(t, admitted, "a record older than the window must not block admissions")
}

func TestInsertIfIdleAdmitsAfterFinish(t *testing.T) {
	uow := uowFactory.GetUoW()
	tx, err := uow.Begin()
	require.NoError(t, err)
	defer uow.Rollback()

	ctx := context.Background()
	siteID := insertSite(t, tx, "admit-finished.test")
	publishRepo := repo.NewPublishRepo(tx)

	first := &db.Publish{SiteID: siteID, Started: time.Now()}
	admitted, err := publishRepo.InsertIfIdle(ctx, first, window)
	require.NoError(t, err)
	require.True(t, admitted)

	require.NoError(t, publishRepo.Finish(ctx, first.ID, time.Now(), true, ""))

	admitted, err = publishRepo.InsertIfIdle(ctx, &db.Publish{SiteID: siteID, Started: time.Now()}, window)
	require.NoError(t, err)
	require.True(t, admitted)
}

func TestFinishWritesTerminalStateOnce(t *testing.T) {
	uow := uowFactory.GetUoW()
	tx, err := uow.Begin()
	require.NoError(t, err)
	defer uow.Rollback()

	ctx := context.Background()
	siteID := insertSite(t, tx, "finish-once.test")
	publishRepo := repo.NewPublishRepo(tx)

	record := &db.Publish{SiteID: siteID, Started: time.Now()}
	_, err = publishRepo.InsertIfIdle(ctx, record, window)
	require.NoError(t, err)

	require.NoError(t, publishRepo.Finish(ctx, record.ID, time.Now(), false, "deploy failed"))
	require.NoError(t, publishRepo.Finish(ctx, record.ID, time.Now(), true, ""))

	stored, err := publishRepo.GetByID(ctx, record.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Finished)
	require.NotNil(t, stored.Success)
	require.False(t, *stored.Success, "a finished record never changes outcome")
	require.Equal(t, "deploy failed", stored.Message)
}

func TestLastSuccessfulReturnsNewestSuccess(t *testing.T) {
	uow := uowFactory.GetUoW()
	tx, err := uow.Begin()
	require.NoError(t, err)
	defer uow.Rollback()

	ctx := context.Background()
	siteID := insertSite(t, tx, "last-success.test")
	publishRepo := repo.NewPublishRepo(tx)

	last, err := publishRepo.LastSuccessful(ctx, siteID)
	require.NoError(t, err)
	require.Nil(t, last, "no successful run yet")

	older := time.Now().Add(-10 * time.Minute)
	newer := time.Now().Add(-5 * time.Minute)
	for _, finished := range []time.Time{older, newer} {
		_, err = tx.Exec(ctx,
			"INSERT INTO blogward.publishes (site_id, started, finished, success, message) VALUES ($1,$2,$3,TRUE,'')",
			siteID, finished.Add(-time.Minute), finished)
		require.NoError(t, err)
	}
	_, err = tx.Exec(ctx,
		"INSERT INTO blogward.publishes (site_id, started, finished, success, message) VALUES ($1,$2,$3,FALSE,'boom')",
		siteID, time.Now().Add(-time.Minute), time.Now())
	require.NoError(t, err)

	last, err = publishRepo.LastSuccessful(ctx, siteID)
	require.NoError(t, err)
	require.NotNil(t, last)
	require.WithinDuration(t, newer, *last.Finished, time.Microsecond)
}

func cleanup(ctx context.Context) {
	_, err := testinfra.Pool.Exec(ctx, "DELETE FROM blogward.sites")
	if err != nil {
		log.Panicf("err cleaning up repo test %v", err)
	}
}
