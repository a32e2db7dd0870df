package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/blogward/blogward-backend/internal/application/commands"
	"github.com/blogward/blogward-backend/internal/application/dto"
	"github.com/blogward/blogward-backend/internal/publish"
	"github.com/blogward/blogward-backend/internal/testinfra"
	dbs "github.com/blogward/blogward-backend/pkg/db"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newSavePost(engine *nopEngine, deployer *nopDeployer) *commands.SavePost {
	engines := publish.NewEngineRegistry()
	engines.Register(nopID, engine)
	deployers := publish.NewDeployerRegistry()
	deployers.Register(nopID, deployer)
	factory := dbs.NewUoWFactory(testinfra.Pool)
	cfg := &publish.Config{Window: time.Minute, Workers: 1, QueueSize: 1}
	return commands.NewSavePost(factory, engines, publish.NewOrchestrator(cfg, factory, engines, deployers))
}

func TestSavePostPersistsBroadcastFlag(t *testing.T) {
	admin := uuid.New()
	siteID := insertSite(t, admin)
	cmd := newSavePost(&nopEngine{}, &nopDeployer{})

	id, err := cmd.Execute(context.Background(), siteID, nil, &dto.SavePostRequest{
		Slug:      "broadcast-me",
		Title:     "Broadcast me",
		Lang:      "en",
		Body:      "hello",
		Broadcast: true,
	}, admin)
	require.NoError(t, err)

	var broadcast *bool
	require.NoError(t, testinfra.Pool.QueryRow(context.Background(),
		"SELECT broadcast FROM blogward.contents WHERE id = $1", id).Scan(&broadcast))
	require.NotNil(t, broadcast)
	require.True(t, *broadcast)
}
