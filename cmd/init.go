package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/blogward/blogward-backend/internal/application"
	"github.com/blogward/blogward-backend/internal/application/commands"
	"github.com/blogward/blogward-backend/internal/application/consts"
	"github.com/blogward/blogward-backend/internal/application/query"
	awsdeploy "github.com/blogward/blogward-backend/internal/infra/deploy/aws"
	"github.com/blogward/blogward-backend/internal/infra/deploy/caddy"
	"github.com/blogward/blogward-backend/internal/infra/engine/pelican"
	"github.com/blogward/blogward-backend/internal/infra/storage"
	"github.com/blogward/blogward-backend/internal/presentation/rest"
	"github.com/blogward/blogward-backend/internal/publish"
	"github.com/blogward/blogward-backend/pkg/db"
	"github.com/blogward/blogward-backend/pkg/env"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/jackc/pgx/v5/pgxpool"
)

func Init() {
	// DB
	dbConfig := db.NewConfig()
	pool, err := pgxpool.New(context.Background(), dbConfig.GetDSN())
	if err != nil {
		log.Panicf("failed to create pool: %v", err)
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Panicf("failed to connect to db: %v", err)
	}
	uowFactory := db.NewUoWFactory(pool)

	// Configs
	publishConfig := publish.NewConfig()
	pelicanConfig := pelican.NewConfig()
	caddyConfig := caddy.NewConfig()
	awsDeployConfig := awsdeploy.NewConfig()

	// Engines
	engines := publish.NewEngineRegistry()
	settingsStore := pelican.NewPgSettingsStore(pool, pelicanConfig.DefaultTheme)
	engines.Register(consts.EnginePelican, pelican.NewEngine(pelicanConfig, settingsStore))

	// Deployers
	deployers := publish.NewDeployerRegistry()
	deployers.Register(consts.DeployerCaddy, caddy.NewDeployer(caddyConfig, engines))

	cfg, err := awsConfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Panic("can't load aws config", err)
	}
	s3 := storage.NewStorage(cfg)
	deploymentStore := awsdeploy.NewPgDeploymentStore(pool)
	deployers.Register(consts.DeployerAWS, awsdeploy.NewDeployer(awsDeployConfig, cfg, s3, deploymentStore, engines))

	orchestrator := publish.NewOrchestrator(publishConfig, uowFactory, engines, deployers)

	handlers := &application.Collection{
		SaveSite:       commands.NewSaveSite(uowFactory, engines, deployers),
		DeleteSite:     commands.NewDeleteSite(uowFactory, engines, deployers),
		SavePost:       commands.NewSavePost(uowFactory, engines, orchestrator),
		SavePage:       commands.NewSavePage(uowFactory, engines),
		DeleteContent:  commands.NewDeleteContent(uowFactory, engines, deployers),
		PublishSite:    commands.NewPublishSite(uowFactory, orchestrator),
		GetSite:        query.NewGetSite(uowFactory),
		GetContent:     query.NewGetContent(uowFactory, engines),
		GetPublish:     query.NewGetPublish(publishConfig, uowFactory),
		PublishRunning: query.NewPublishRunning(publishConfig, uowFactory),
		CheckDomain:    query.NewCheckDomain(uowFactory),
	}
	handler := rest.NewServer(handlers)
	app := fiber.New(fiber.Config{
		IdleTimeout: 5 * time.Second,
	})
	app.Use(cors.New(cors.Config{
		AllowOrigins:     env.GetEnv("CORS_ORIGINS", "http://localhost:3000"),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-User-ID",
		AllowCredentials: true,
	}))
	handler.RegisterRoutes(app)

	go func() {
		if err := app.Listen(":8080"); err != nil {
			log.Panic(err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c
	fmt.Println("Gracefully shutting down...")
	_ = app.Shutdown()
	orchestrator.Stop()

	fmt.Println("Running cleanup tasks...")

	uowFactory.Pool.Close()
	fmt.Println("Fiber was successfully shutdown.")
}
