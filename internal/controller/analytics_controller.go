package controller

import (
	"devops-assistant-be/internal/pkg/serverutils"
	"devops-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAnalyticsController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
}

type analyticsController struct {
	service service.IAnalyticsService
}

func NewAnalyticsController(service service.IAnalyticsService) IAnalyticsController {
	return &analyticsController{service: service}
}

func (c *analyticsController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/analytics", jwtMiddleware)
	h.Get("/questions", c.ListQuestions)
	h.Get("/summary", serverutils.RequireAdmin, c.Summary)
}

// ListQuestions returns the caller's own history; admins may pass ?username=
// to inspect any user or ?username=all for everything.
func (c *analyticsController) ListQuestions(ctx *fiber.Ctx) error {
	role, _ := ctx.Locals("role").(string)
	caller, _ := ctx.Locals("username").(string)

	username := caller
	if role == "admin" {
		switch requested := ctx.Query("username"); requested {
		case "":
			// admins default to their own history too
		case "all":
			username = ""
		default:
			username = requested
		}
	}

	limit := ctx.QueryInt("limit", 100)
	records, err := c.service.List(ctx.Context(), username, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Questions retrieved", records))
}

func (c *analyticsController) Summary(ctx *fiber.Ctx) error {
	summary, err := c.service.Summary(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Stats summary", summary))
}
