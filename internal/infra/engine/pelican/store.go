package pelican

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SettingsStore resolves per-site engine settings.
type SettingsStore interface {
	Get(ctx context.Context, siteID uint64) (Settings, error)
	Save(ctx context.Context, settings Settings) error
}

// PgSettingsStore keeps per-site pelican settings in their own table, created
// with defaults the first time a site is seen.
type PgSettingsStore struct {
	pool         *pgxpool.Pool
	defaultTheme string
}

var _ SettingsStore = (*PgSettingsStore)(nil)

func NewPgSettingsStore(pool *pgxpool.Pool, defaultTheme string) *PgSettingsStore {
	return &PgSettingsStore{pool: pool, defaultTheme: defaultTheme}
}

func (s *PgSettingsStore) Get(ctx context.Context, siteID uint64) (Settings, error) {
	var settings Settings
	err := s.pool.QueryRow(ctx,
		`SELECT site_id, theme, post_url_template, page_url_prefix, category_url_prefix,
			author_url_prefix, tags_url_prefix, show_pages_in_menu, show_categories_in_menu,
			facebook, twitter, linkedin, github, instagram
		 FROM blogward.pelican_settings WHERE site_id = $1`, siteID,
	).Scan(&settings.SiteID, &settings.Theme, &settings.PostURLTemplate, &settings.PageURLPrefix,
		&settings.CategoryURLPrefix, &settings.AuthorURLPrefix, &settings.TagsURLPrefix,
		&settings.ShowPagesInMenu, &settings.ShowCategoriesInMenu,
		&settings.Facebook, &settings.Twitter, &settings.LinkedIn, &settings.GitHub, &settings.Instagram)
	if errors.Is(err, pgx.ErrNoRows) {
		settings = defaultSettings(siteID, s.defaultTheme)
		if err := s.Save(ctx, settings); err != nil {
			return Settings{}, err
		}
		return settings, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("err loading pelican settings for site %d, %v", siteID, err)
	}
	return settings, nil
}

func (s *PgSettingsStore) Save(ctx context.Context, settings Settings) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO blogward.pelican_settings (site_id, theme, post_url_template, page_url_prefix,
			category_url_prefix, author_url_prefix, tags_url_prefix, show_pages_in_menu,
			show_categories_in_menu, facebook, twitter, linkedin, github, instagram)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		 ON CONFLICT (site_id) DO UPDATE SET theme=$2, post_url_template=$3, page_url_prefix=$4,
			category_url_prefix=$5, author_url_prefix=$6, tags_url_prefix=$7, show_pages_in_menu=$8,
			show_categories_in_menu=$9, facebook=$10, twitter=$11, linkedin=$12, github=$13, instagram=$14`,
		settings.SiteID, settings.Theme, settings.PostURLTemplate, settings.PageURLPrefix,
		settings.CategoryURLPrefix, settings.AuthorURLPrefix, settings.TagsURLPrefix,
		settings.ShowPagesInMenu, settings.ShowCategoriesInMenu,
		settings.Facebook, settings.Twitter, settings.LinkedIn, settings.GitHub, settings.Instagram)
	if err != nil {
		return fmt.Errorf("err saving pelican settings for site %d, %v", settings.SiteID, err)
	}
	return nil
}

// StaticSettingsStore serves fixed settings, used where no database is wired.
type StaticSettingsStore struct {
	Settings map[uint64]Settings
	Theme    string
}

var _ SettingsStore = (*StaticSettingsStore)(nil)

func (s *StaticSettingsStore) Get(_ context.Context, siteID uint64) (Settings, error) {
	if settings, ok := s.Settings[siteID]; ok {
		return settings, nil
	}
	return defaultSettings(siteID, s.Theme), nil
}

func (s *StaticSettingsStore) Save(_ context.Context, settings Settings) error {
	if s.Settings == nil {
		s.Settings = make(map[uint64]Settings)
	}
	s.Settings[settings.SiteID] = settings
	return nil
}
