package repo

import (
	"context"
	"fmt"

	"github.com/blogward/blogward-backend/internal/application/consts"
	"github.com/blogward/blogward-backend/internal/application/interfaces"
	"github.com/blogward/blogward-backend/internal/infra/db"
	"github.com/jackc/pgx/v5"
)

type ContentRepo struct {
	tx pgx.Tx
}

var _ interfaces.ContentRepo = (*ContentRepo)(nil)

func NewContentRepo(tx pgx.Tx) *ContentRepo {
	return &ContentRepo{tx: tx}
}

const contentColumns = `id, site_id, kind, slug, title, lang, body, heading, created, updated,
	edit_count, word_delta, draft, category_id, author_id, author_name, translation_of,
	description, punchline, broadcast`

func scanContent(row pgx.Row) (*db.Content, error) {
	var c db.Content
	err := row.Scan(&c.ID, &c.SiteID, &c.Kind, &c.Slug, &c.Title, &c.Lang, &c.Body, &c.Heading,
		&c.Created, &c.Updated, &c.EditCount, &c.WordDelta, &c.Draft, &c.CategoryID, &c.AuthorID,
		&c.AuthorName, &c.TranslationOf, &c.Description, &c.Punchline, &c.Broadcast)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ContentRepo) GetByID(ctx context.Context, id uint64) (*db.Content, error) {
	return scanContent(r.tx.QueryRow(ctx,
		"SELECT "+contentColumns+" FROM blogward.contents WHERE id = $1", id))
}

func (r *ContentRepo) ListBySite(ctx context.Context, siteID uint64, kind consts.ContentKind) ([]db.Content, error) {
	rows, err := r.tx.Query(ctx,
		"SELECT "+contentColumns+" FROM blogward.contents WHERE site_id = $1 AND kind = $2 ORDER BY created",
		siteID, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var contents []db.Content
	for rows.Next() {
		content, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		contents = append(contents, *content)
	}
	return contents, rows.Err()
}

func (r *ContentRepo) Insert(ctx context.Context, c *db.Content) (uint64, error) {
	err := r.tx.QueryRow(ctx,
		`INSERT INTO blogward.contents (site_id, kind, slug, title, lang, body, heading, created, updated,
			edit_count, word_delta, draft, category_id, author_id, author_name, translation_of,
			description, punchline, broadcast)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19) RETURNING id`,
		c.SiteID, c.Kind, c.Slug, c.Title, c.Lang, c.Body, c.Heading, c.Created, c.Updated,
		c.EditCount, c.WordDelta, c.Draft, c.CategoryID, c.AuthorID, c.AuthorName, c.TranslationOf,
		c.Description, c.Punchline, c.Broadcast,
	).Scan(&c.ID)
	if err != nil {
		return 0, fmt.Errorf("err inserting content, %v", err)
	}
	return c.ID, nil
}

func (r *ContentRepo) Update(ctx context.Context, c *db.Content) error {
	_, err := r.tx.Exec(ctx,
		`UPDATE blogward.contents SET slug=$2, title=$3, lang=$4, body=$5, heading=$6, updated=$7,
			edit_count=$8, word_delta=$9, draft=$10, category_id=$11, author_id=$12, author_name=$13,
			translation_of=$14, description=$15, punchline=$16, broadcast=$17
		 WHERE id = $1`,
		c.ID, c.Slug, c.Title, c.Lang, c.Body, c.Heading, c.Updated, c.EditCount, c.WordDelta,
		c.Draft, c.CategoryID, c.AuthorID, c.AuthorName, c.TranslationOf, c.Description,
		c.Punchline, c.Broadcast)
	if err != nil {
		return fmt.Errorf("err updating content %d, %v", c.ID, err)
	}
	return nil
}

func (r *ContentRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.tx.Exec(ctx, "DELETE FROM blogward.contents WHERE id = $1", id)
	return err
}

func (r *ContentRepo) GetCategory(ctx context.Context, id uint64) (*db.Category, error) {
	var category db.Category
	err := r.tx.QueryRow(ctx,
		"SELECT id, site_id, slug, name FROM blogward.categories WHERE id = $1", id,
	).Scan(&category.ID, &category.SiteID, &category.Slug, &category.Name)
	if err != nil {
		return nil, err
	}
	return &category, nil
}
