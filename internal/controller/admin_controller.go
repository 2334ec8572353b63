package controller

import (
	"ai-docchat-be/internal/pkg/serverutils"
	"ai-docchat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	CacheStats(ctx *fiber.Ctx) error
	ClearCache(ctx *fiber.Ctx) error
	SystemStats(ctx *fiber.Ctx) error
}

type adminController struct {
	queryService service.IQueryService
}

func NewAdminController(queryService service.IQueryService) IAdminController {
	return &adminController{
		queryService: queryService,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/v1")
	h.Get("cache/stats", c.CacheStats)
	h.Post("cache/clear", c.ClearCache)
	h.Get("stats", c.SystemStats)
}

func (c *adminController) CacheStats(ctx *fiber.Ctx) error {
	res := c.queryService.CacheStats()

	return ctx.JSON(serverutils.SuccessResponse("Success show cache stats", res))
}

func (c *adminController) ClearCache(ctx *fiber.Ctx) error {
	c.queryService.ClearCache()

	return ctx.JSON(serverutils.SuccessResponse("Success clear cache", nil))
}

func (c *adminController) SystemStats(ctx *fiber.Ctx) error {
	res := c.queryService.SystemStats()

	return ctx.JSON(serverutils.SuccessResponse("Success show system stats", res))
}
