package repo

import (
	"context"
	"fmt"

	"github.com/blogward/blogward-backend/internal/application/interfaces"
	"github.com/blogward/blogward-backend/internal/infra/db"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SiteRepo struct {
	tx pgx.Tx
}

var _ interfaces.SiteRepo = (*SiteRepo)(nil)

func NewSiteRepo(tx pgx.Tx) *SiteRepo {
	return &SiteRepo{tx: tx}
}

const siteColumns = `id, domain, path, admin_id, lang, timezone, title, subtitle, logo, heading,
	allow_crawlers, allow_training, engine, deployment, secure, created_at, updated_at`

func (s *SiteRepo) scanSite(row pgx.Row) (*db.Site, error) {
	var site db.Site
	err := row.Scan(&site.ID, &site.Domain, &site.Path, &site.AdminID, &site.Lang, &site.Timezone,
		&site.Title, &site.Subtitle, &site.Logo, &site.Heading, &site.AllowCrawlers, &site.AllowTraining,
		&site.Engine, &site.Deployment, &site.Secure, &site.CreatedAt, &site.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &site, nil
}

func (s *SiteRepo) GetByID(ctx context.Context, id uint64) (*db.Site, error) {
	return s.scanSite(s.tx.QueryRow(ctx,
		"SELECT "+siteColumns+" FROM blogward.sites WHERE id = $1", id))
}

func (s *SiteRepo) GetByURN(ctx context.Context, domain, path string) (*db.Site, error) {
	return s.scanSite(s.tx.QueryRow(ctx,
		"SELECT "+siteColumns+" FROM blogward.sites WHERE domain = $1 AND path = $2", domain, path))
}

func (s *SiteRepo) GetStaff(ctx context.Context, siteID uint64) ([]uuid.UUID, error) {
	rows, err := s.tx.Query(ctx, "SELECT user_id FROM blogward.site_staff WHERE site_id = $1", siteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var staff []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		staff = append(staff, id)
	}
	return staff, rows.Err()
}

func (s *SiteRepo) Insert(ctx context.Context, site *db.Site, staff []uuid.UUID) (uint64, error) {
	err := s.tx.QueryRow(ctx,
		`INSERT INTO blogward.sites (domain, path, admin_id, lang, timezone, title, subtitle, logo, heading,
			allow_crawlers, allow_training, engine, deployment, secure, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16) RETURNING id`,
		site.Domain, site.Path, site.AdminID, site.Lang, site.Timezone, site.Title, site.Subtitle,
		site.Logo, site.Heading, site.AllowCrawlers, site.AllowTraining, site.Engine, site.Deployment,
		site.Secure, site.CreatedAt, site.UpdatedAt,
	).Scan(&site.ID)
	if err != nil {
		return 0, fmt.Errorf("err inserting site, %v", err)
	}
	if err := s.replaceStaff(ctx, site.ID, staff); err != nil {
		return 0, err
	}
	return site.ID, nil
}

func (s *SiteRepo) Update(ctx context.Context, site *db.Site, staff []uuid.UUID) error {
	_, err := s.tx.Exec(ctx,
		`UPDATE blogward.sites SET domain=$2, path=$3, admin_id=$4, lang=$5, timezone=$6, title=$7,
			subtitle=$8, logo=$9, heading=$10, allow_crawlers=$11, allow_training=$12, engine=$13,
			deployment=$14, secure=$15, updated_at=$16
		 WHERE id = $1`,
		site.ID, site.Domain, site.Path, site.AdminID, site.Lang, site.Timezone, site.Title,
		site.Subtitle, site.Logo, site.Heading, site.AllowCrawlers, site.AllowTraining, site.Engine,
		site.Deployment, site.Secure, site.UpdatedAt)
	if err != nil {
		return fmt.Errorf("err updating site %d, %v", site.ID, err)
	}
	return s.replaceStaff(ctx, site.ID, staff)
}

func (s *SiteRepo) replaceStaff(ctx context.Context, siteID uint64, staff []uuid.UUID) error {
	if _, err := s.tx.Exec(ctx, "DELETE FROM blogward.site_staff WHERE site_id = $1", siteID); err != nil {
		return err
	}
	for _, userID := range staff {
		_, err := s.tx.Exec(ctx,
			"INSERT INTO blogward.site_staff (site_id, user_id) VALUES ($1,$2)", siteID, userID)
		if err != nil {
			return fmt.Errorf("err inserting site staff, %v", err)
		}
	}
	return nil
}

// Delete removes the site row. Categories, links, contents and publish history
// cascade on the foreign keys.
func (s *SiteRepo) Delete(ctx context.Context, id uint64) error {
	_, err := s.tx.Exec(ctx, "DELETE FROM blogward.sites WHERE id = $1", id)
	return err
}

func (s *SiteRepo) ListDomains(ctx context.Context) ([]string, error) {
	rows, err := s.tx.Query(ctx, "SELECT domain FROM blogward.sites ORDER BY domain")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var domains []string
	for rows.Next() {
		var domain string
		if err := rows.Scan(&domain); err != nil {
			return nil, err
		}
		domains = append(domains, domain)
	}
	return domains, rows.Err()
}

func (s *SiteRepo) Links(ctx context.Context, siteID uint64) ([]db.Link, error) {
	rows, err := s.tx.Query(ctx,
		"SELECT id, site_id, title, url FROM blogward.links WHERE site_id = $1 ORDER BY id", siteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var links []db.Link
	for rows.Next() {
		var link db.Link
		if err := rows.Scan(&link.ID, &link.SiteID, &link.Title, &link.URL); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}
