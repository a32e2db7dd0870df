package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blogward/blogward-backend/internal/application/interfaces"
	"github.com/blogward/blogward-backend/internal/infra/db"
	"github.com/jackc/pgx/v5"
)

// PublishRepo is the publish ledger. The ledger is the single source of truth
// for the one-running-publish-per-site invariant.
type PublishRepo struct {
	tx pgx.Tx
}

var _ interfaces.PublishRepo = (*PublishRepo)(nil)

func NewPublishRepo(tx pgx.Tx) *PublishRepo {
	return &PublishRepo{tx: tx}
}

// InsertIfIdle creates a running record unless another one exists for the site
// within the staleness window. A per-site transaction-scoped advisory lock
// makes the check-then-insert atomic against concurrent admissions.
func (p *PublishRepo) InsertIfIdle(ctx context.Context, publish *db.Publish, window time.Duration) (bool, error) {
	_, err := p.tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", int64(publish.SiteID))
	if err != nil {
		return false, fmt.Errorf("err taking admission lock, %v", err)
	}

	var running int
	err = p.tx.QueryRow(ctx,
		"SELECT count(*) FROM blogward.publishes WHERE site_id = $1 AND finished IS NULL AND started > $2",
		publish.SiteID, time.Now().Add(-window),
	).Scan(&running)
	if err != nil {
		return false, fmt.Errorf("err checking running publishes, %v", err)
	}
	if running > 0 {
		return false, nil
	}

	err = p.tx.QueryRow(ctx,
		`INSERT INTO blogward.publishes (site_id, post_id, force, purge, started, message)
		 VALUES ($1,$2,$3,$4,$5,'') RETURNING id`,
		publish.SiteID, publish.PostID, publish.Force, publish.Purge, publish.Started,
	).Scan(&publish.ID)
	if err != nil {
		return false, fmt.Errorf("err inserting publish, %v", err)
	}

	return true, nil
}

func (p *PublishRepo) GetByID(ctx context.Context, id uint64) (*db.Publish, error) {
	var publish db.Publish
	err := p.tx.QueryRow(ctx,
		`SELECT id, site_id, post_id, force, purge, started, finished, success, message
		 FROM blogward.publishes WHERE id = $1`, id,
	).Scan(&publish.ID, &publish.SiteID, &publish.PostID, &publish.Force, &publish.Purge,
		&publish.Started, &publish.Finished, &publish.Success, &publish.Message)
	if err != nil {
		return nil, err
	}
	return &publish, nil
}

// Finish writes the terminal state exactly once; already-finished rows are
// left untouched.
func (p *PublishRepo) Finish(ctx context.Context, id uint64, finished time.Time, success bool, message string) error {
	_, err := p.tx.Exec(ctx,
		"UPDATE blogward.publishes SET finished = $2, success = $3, message = $4 WHERE id = $1 AND finished IS NULL",
		id, finished, success, message)
	if err != nil {
		return fmt.Errorf("err finishing publish %d, %v", id, err)
	}
	return nil
}

func (p *PublishRepo) IsRunning(ctx context.Context, siteID uint64, window time.Duration) (bool, error) {
	var running int
	err := p.tx.QueryRow(ctx,
		"SELECT count(*) FROM blogward.publishes WHERE site_id = $1 AND finished IS NULL AND started > $2",
		siteID, time.Now().Add(-window),
	).Scan(&running)
	if err != nil {
		return false, err
	}
	return running > 0, nil
}

func (p *PublishRepo) LastSuccessful(ctx context.Context, siteID uint64) (*db.Publish, error) {
	var publish db.Publish
	err := p.tx.QueryRow(ctx,
		`SELECT id, site_id, post_id, force, purge, started, finished, success, message
		 FROM blogward.publishes WHERE site_id = $1 AND success = TRUE ORDER BY finished DESC LIMIT 1`, siteID,
	).Scan(&publish.ID, &publish.SiteID, &publish.PostID, &publish.Force, &publish.Purge,
		&publish.Started, &publish.Finished, &publish.Success, &publish.Message)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &publish, nil
}
