package testinfra

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var Pool *pgxpool.Pool
var AwsCfg aws.Config

func init() {
	Pool = SetupDB()
	AwsCfg = SetupAWS()
}

func SetupDB() *pgxpool.Pool {

	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:17.2-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_PASSWORD": "password",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections"),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	if err != nil {
		log.Panicf("start postgres: %v", err)
	}

	pgHostPort, err := pgC.Endpoint(ctx, "")
	if err != nil {
		log.Panicf("postgres endpoint: %v", err)
	}
	pgDSN := fmt.Sprintf("postgres://postgres:password@%s/testdb?sslmode=disable", pgHostPort)

	pool, err := pgxpool.New(ctx, pgDSN)
	if err != nil {
		log.Panicf("pgxpool connect: %v", err)
	}

	ok := false
	for i := 0; i < 20; i++ {
		slog.Info("ping db", "try", i)
		ctxPing, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
		err = pool.Ping(ctxPing)
		cancel()
		if err == nil {
			ok = true
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if !ok {
		log.Panic("db did not respond after 20 attempts")
	}

	_, err = pool.Exec(ctx, `
		CREATE SCHEMA IF NOT EXISTS blogward;
		CREATE TABLE IF NOT EXISTS blogward.sites (
			id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			domain VARCHAR(255) NOT NULL,
			path VARCHAR(255) NOT NULL DEFAULT '/',
			admin_id UUID NOT NULL,
			lang VARCHAR(10) NOT NULL DEFAULT 'en',
			timezone VARCHAR(60) NOT NULL DEFAULT 'UTC',
			title TEXT NOT NULL DEFAULT '',
			subtitle TEXT NOT NULL DEFAULT '',
			logo TEXT NOT NULL DEFAULT '',
			heading TEXT NOT NULL DEFAULT '',
			allow_crawlers BOOLEAN NOT NULL DEFAULT TRUE,
			allow_training BOOLEAN NOT NULL DEFAULT TRUE,
			engine VARCHAR(40) NOT NULL,
			deployment VARCHAR(40) NOT NULL,
			secure BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			UNIQUE (domain, path)
		);
		CREATE TABLE IF NOT EXISTS blogward.site_staff (
			site_id BIGINT NOT NULL REFERENCES blogward.sites(id) ON DELETE CASCADE,
			user_id UUID NOT NULL,
			PRIMARY KEY (site_id, user_id)
		);
		CREATE TABLE IF NOT EXISTS blogward.categories (
			id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			site_id BIGINT NOT NULL REFERENCES blogward.sites(id) ON DELETE CASCADE,
			slug VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL,
			UNIQUE (site_id, slug)
		);
		CREATE TABLE IF NOT EXISTS blogward.links (
			id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			site_id BIGINT NOT NULL REFERENCES blogward.sites(id) ON DELETE CASCADE,
			title VARCHAR(255) NOT NULL,
			url TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS blogward.contents (
			id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			site_id BIGINT NOT NULL REFERENCES blogward.sites(id) ON DELETE CASCADE,
			kind VARCHAR(10) NOT NULL,
			slug VARCHAR(255) NOT NULL,
			title TEXT NOT NULL,
			lang VARCHAR(10) NOT NULL DEFAULT 'en',
			body TEXT NOT NULL DEFAULT '',
			heading TEXT NOT NULL DEFAULT '',
			created TIMESTAMPTZ NOT NULL,
			updated TIMESTAMPTZ NOT NULL,
			edit_count INT NOT NULL DEFAULT 0,
			word_delta INT NOT NULL DEFAULT 0,
			draft BOOLEAN,
			category_id BIGINT REFERENCES blogward.categories(id) ON DELETE SET NULL,
			author_id UUID,
			author_name VARCHAR(255),
			translation_of BIGINT,
			description TEXT,
			punchline TEXT,
			broadcast BOOLEAN,
			UNIQUE (site_id, kind, slug, lang)
		);
		CREATE TABLE IF NOT EXISTS blogward.publishes (
			id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			site_id BIGINT NOT NULL REFERENCES blogward.sites(id) ON DELETE CASCADE,
			post_id BIGINT REFERENCES blogward.contents(id) ON DELETE SET NULL,
			force BOOLEAN NOT NULL DEFAULT FALSE,
			purge BOOLEAN NOT NULL DEFAULT FALSE,
			started TIMESTAMPTZ NOT NULL,
			finished TIMESTAMPTZ,
			success BOOLEAN,
			message TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS publishes_site_started ON blogward.publishes (site_id, started DESC);
		CREATE TABLE IF NOT EXISTS blogward.pelican_settings (
			site_id BIGINT PRIMARY KEY REFERENCES blogward.sites(id) ON DELETE CASCADE,
			theme VARCHAR(120) NOT NULL,
			post_url_template VARCHAR(255) NOT NULL,
			page_url_prefix VARCHAR(120) NOT NULL,
			category_url_prefix VARCHAR(120) NOT NULL,
			author_url_prefix VARCHAR(120) NOT NULL,
			tags_url_prefix VARCHAR(120) NOT NULL,
			show_pages_in_menu BOOLEAN NOT NULL,
			show_categories_in_menu BOOLEAN NOT NULL,
			facebook VARCHAR(255) NOT NULL DEFAULT '',
			twitter VARCHAR(255) NOT NULL DEFAULT '',
			linkedin VARCHAR(255) NOT NULL DEFAULT '',
			github VARCHAR(255) NOT NULL DEFAULT '',
			instagram VARCHAR(255) NOT NULL DEFAULT ''
		);
		CREATE TABLE IF NOT EXISTS blogward.aws_deployments (
			site_id BIGINT PRIMARY KEY REFERENCES blogward.sites(id) ON DELETE CASCADE,
			bucket VARCHAR(255) NOT NULL,
			cloudfront_id VARCHAR(60) NOT NULL DEFAULT ''
		);
	`)
	if err != nil {
		log.Panicf("create tables: %v", err)
	}

	return pool
}

func SetupAWS() aws.Config {
	slog.Info("SETUP AWS CONFIG")
	awsCfg, err := awsConfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Panic("can't load aws config", err)
	}

	return awsCfg
}
