package rest

import (
	"errors"
	"strconv"

	"github.com/blogward/blogward-backend/internal/application"
	"github.com/blogward/blogward-backend/internal/application/dto"
	"github.com/blogward/blogward-backend/internal/application/errs"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Server struct {
	commands *application.Collection
}

func NewServer(commands *application.Collection) *Server {
	return &Server{commands: commands}
}

func (s *Server) RegisterRoutes(app *fiber.App) {
	app.Post("/sites", s.CreateSite)
	app.Put("/sites/:id", s.UpdateSite)
	app.Delete("/sites/:id", s.DeleteSite)
	app.Get("/sites/:id", s.GetSite)

	app.Post("/sites/:id/posts", s.CreatePost)
	app.Put("/sites/:id/posts/:postId", s.UpdatePost)
	app.Post("/sites/:id/pages", s.CreatePage)
	app.Put("/sites/:id/pages/:pageId", s.UpdatePage)
	app.Delete("/sites/:id/content/:contentId", s.DeleteContent)
	app.Get("/content/:id", s.GetContent)

	app.Post("/sites/:id/publish", s.PublishSite)
	app.Get("/publishes/:id", s.GetPublish)
	app.Get("/sites/:id/publish/running", s.PublishRunning)

	app.Get("/domains/check", s.CheckDomain)
}

func (s *Server) CreateSite(c *fiber.Ctx) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return badRequest(c, err)
	}
	var req dto.SaveSiteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	siteID, err := s.commands.SaveSite.Execute(c.Context(), nil, &req, identity)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"siteId": siteID})
}

func (s *Server) UpdateSite(c *fiber.Ctx) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return badRequest(c, err)
	}
	siteID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err)
	}
	var req dto.SaveSiteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	updatedID, err := s.commands.SaveSite.Execute(c.Context(), &siteID, &req, identity)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"siteId": updatedID})
}

func (s *Server) DeleteSite(c *fiber.Ctx) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return badRequest(c, err)
	}
	siteID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err)
	}

	if err := s.commands.DeleteSite.Execute(c.Context(), siteID, identity); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) GetSite(c *fiber.Ctx) error {
	siteID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err)
	}
	resp, err := s.commands.GetSite.Query(c.Context(), siteID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (s *Server) CreatePost(c *fiber.Ctx) error {
	return s.savePost(c, nil)
}

func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := paramID(c, "postId")
	if err != nil {
		return badRequest(c, err)
	}
	return s.savePost(c, &postID)
}

func (s *Server) savePost(c *fiber.Ctx, postID *uint64) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return badRequest(c, err)
	}
	siteID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err)
	}
	var req dto.SavePostRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	id, err := s.commands.SavePost.Execute(c.Context(), siteID, postID, &req, identity)
	if err != nil {
		return errorResponse(c, err)
	}
	status := fiber.StatusOK
	if postID == nil {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"postId": id})
}

func (s *Server) CreatePage(c *fiber.Ctx) error {
	return s.savePage(c, nil)
}

func (s *Server) UpdatePage(c *fiber.Ctx) error {
	pageID, err := paramID(c, "pageId")
	if err != nil {
		return badRequest(c, err)
	}
	return s.savePage(c, &pageID)
}

func (s *Server) savePage(c *fiber.Ctx, pageID *uint64) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return badRequest(c, err)
	}
	siteID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err)
	}
	var req dto.SavePageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	id, err := s.commands.SavePage.Execute(c.Context(), siteID, pageID, &req, identity)
	if err != nil {
		return errorResponse(c, err)
	}
	status := fiber.StatusOK
	if pageID == nil {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"pageId": id})
}

func (s *Server) DeleteContent(c *fiber.Ctx) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return badRequest(c, err)
	}
	siteID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err)
	}
	contentID, err := paramID(c, "contentId")
	if err != nil {
		return badRequest(c, err)
	}

	if err := s.commands.DeleteContent.Execute(c.Context(), siteID, contentID, identity); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) GetContent(c *fiber.Ctx) error {
	contentID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err)
	}
	resp, err := s.commands.GetContent.Query(c.Context(), contentID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (s *Server) PublishSite(c *fiber.Ctx) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return badRequest(c, err)
	}
	siteID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err)
	}
	req := dto.PublishRequest{
		Force: c.QueryBool("force"),
		Purge: c.QueryBool("purge"),
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, err)
		}
	}

	record, err := s.commands.PublishSite.Execute(c.Context(), siteID, &req, identity)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"publishId": record.ID})
}

func (s *Server) GetPublish(c *fiber.Ctx) error {
	publishID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err)
	}
	resp, err := s.commands.GetPublish.Query(c.Context(), publishID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (s *Server) PublishRunning(c *fiber.Ctx) error {
	siteID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err)
	}
	running, err := s.commands.PublishRunning.Query(c.Context(), siteID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"running": running})
}

// CheckDomain serves the TLS on-demand "ask" contract: 200 when the domain is
// managed, 404 otherwise.
func (s *Server) CheckDomain(c *fiber.Ctx) error {
	domain := c.Query("domain")
	if domain == "" {
		return badRequest(c, errors.New("domain query param is required"))
	}
	known, err := s.commands.CheckDomain.Query(c.Context(), domain)
	if err != nil {
		return errorResponse(c, err)
	}
	if !known {
		return c.SendStatus(fiber.StatusNotFound)
	}
	return c.SendStatus(fiber.StatusOK)
}

func paramID(c *fiber.Ctx, name string) (uint64, error) {
	return strconv.ParseUint(c.Params(name), 10, 64)
}

// callerIdentity reads the user id set by the gateway in front of this
// service. Authentication itself happens there.
func callerIdentity(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Get("X-User-ID"))
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
}

func errorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.As(err, &errs.AlreadyRunningError{}):
		status = fiber.StatusConflict
	case errors.As(err, &errs.StaleEditError{}):
		status = fiber.StatusConflict
	case errors.As(err, &errs.PermissionError{}):
		status = fiber.StatusForbidden
	case errors.As(err, &errs.EngineNotFoundError{}), errors.As(err, &errs.DeployerNotFoundError{}):
		status = fiber.StatusBadRequest
	case errors.Is(err, pgx.ErrNoRows):
		status = fiber.StatusNotFound
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: err.Error()})
}
