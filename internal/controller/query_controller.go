package controller

import (
	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/pkg/serverutils"
	"ai-docchat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IQueryController interface {
	RegisterRoutes(r fiber.Router)
	Process(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	ClearSession(ctx *fiber.Ctx) error
	Sessions(ctx *fiber.Ctx) error
}

type queryController struct {
	queryService service.IQueryService
}

func NewQueryController(queryService service.IQueryService) IQueryController {
	return &queryController{
		queryService: queryService,
	}
}

func (c *queryController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("query", c.Process)
	h.Get("history/:sessionId", c.History)
	h.Delete("session/:sessionId", c.ClearSession)
	h.Get("sessions", c.Sessions)
}

func (c *queryController) Process(ctx *fiber.Ctx) error {
	var req dto.ProcessQueryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res := c.queryService.ProcessQuery(ctx.Context(), &req)

	// Pipeline failures are a well-formed payload, not an HTTP error.
	return ctx.JSON(serverutils.SuccessResponse("Success process query", res))
}

func (c *queryController) History(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("sessionId")

	res := c.queryService.GetChatHistory(sessionId)

	return ctx.JSON(serverutils.SuccessResponse("Success show chat history", res))
}

func (c *queryController) ClearSession(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("sessionId")

	if !c.queryService.ClearSession(sessionId) {
		return fiber.NewError(fiber.StatusNotFound, "session not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success clear session", nil))
}

func (c *queryController) Sessions(ctx *fiber.Ctx) error {
	res := c.queryService.ActiveSessions()

	return ctx.JSON(serverutils.SuccessResponse("Success show active sessions", res))
}
