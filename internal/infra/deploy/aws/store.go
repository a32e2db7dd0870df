package aws

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deployment records the cloud resources backing one site.
type Deployment struct {
	SiteID       uint64
	Bucket       string
	CloudfrontID string
}

// DeploymentStore resolves per-site cloud resource records.
type DeploymentStore interface {
	Get(ctx context.Context, siteID uint64) (*Deployment, error)
	Save(ctx context.Context, deployment *Deployment) error
	Delete(ctx context.Context, siteID uint64) error
}

type PgDeploymentStore struct {
	pool *pgxpool.Pool
}

var _ DeploymentStore = (*PgDeploymentStore)(nil)

func NewPgDeploymentStore(pool *pgxpool.Pool) *PgDeploymentStore {
	return &PgDeploymentStore{pool: pool}
}

// Get returns nil without error when the site has no deployment record yet.
func (s *PgDeploymentStore) Get(ctx context.Context, siteID uint64) (*Deployment, error) {
	var deployment Deployment
	err := s.pool.QueryRow(ctx,
		`SELECT site_id, bucket, cloudfront_id FROM blogward.aws_deployments WHERE site_id = $1`,
		siteID,
	).Scan(&deployment.SiteID, &deployment.Bucket, &deployment.CloudfrontID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("err loading aws deployment for site %d, %v", siteID, err)
	}
	return &deployment, nil
}

func (s *PgDeploymentStore) Save(ctx context.Context, deployment *Deployment) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO blogward.aws_deployments (site_id, bucket, cloudfront_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (site_id) DO UPDATE SET bucket = $2, cloudfront_id = $3`,
		deployment.SiteID, deployment.Bucket, deployment.CloudfrontID)
	if err != nil {
		return fmt.Errorf("err saving aws deployment for site %d, %v", deployment.SiteID, err)
	}
	return nil
}

func (s *PgDeploymentStore) Delete(ctx context.Context, siteID uint64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM blogward.aws_deployments WHERE site_id = $1`, siteID)
	if err != nil {
		return fmt.Errorf("err deleting aws deployment for site %d, %v", siteID, err)
	}
	return nil
}

// StaticDeploymentStore keeps deployment records in memory, used where no
// database is wired.
type StaticDeploymentStore struct {
	Deployments map[uint64]*Deployment
}

var _ DeploymentStore = (*StaticDeploymentStore)(nil)

func (s *StaticDeploymentStore) Get(_ context.Context, siteID uint64) (*Deployment, error) {
	return s.Deployments[siteID], nil
}

func (s *StaticDeploymentStore) Save(_ context.Context, deployment *Deployment) error {
	if s.Deployments == nil {
		s.Deployments = make(map[uint64]*Deployment)
	}
	s.Deployments[deployment.SiteID] = deployment
	return nil
}

func (s *StaticDeploymentStore) Delete(_ context.Context, siteID uint64) error {
	delete(s.Deployments, siteID)
	return nil
}
