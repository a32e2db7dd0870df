package application

import (
	"github.com/blogward/blogward-backend/internal/application/commands"
	"github.com/blogward/blogward-backend/internal/application/query"
)

type Collection struct {
	*commands.SaveSite
	*commands.DeleteSite
	*commands.SavePost
	*commands.SavePage
	*commands.DeleteContent
	*commands.PublishSite
	*query.GetSite
	*query.GetContent
	*query.GetPublish
	*query.PublishRunning
	*query.CheckDomain
}
