package controller

import (
	"devops-assistant-be/internal/dto"
	"devops-assistant-be/internal/pkg/serverutils"
	"devops-assistant-be/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type IDocsController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
}

type docsController struct {
	service  service.IDocsService
	validate *validator.Validate
}

func NewDocsController(service service.IDocsService) IDocsController {
	return &docsController{
		service:  service,
		validate: validator.New(),
	}
}

func (c *docsController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/docs", jwtMiddleware)
	h.Get("/", c.List)
	h.Get("/search", c.Search)
	h.Post("/", serverutils.RequireAdmin, c.Add)
}

func (c *docsController) Add(ctx *fiber.Ctx) error {
	var req dto.AddDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
	}
	if err := c.validate.Struct(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.Add(ctx.Context(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Document added", res))
}

func (c *docsController) List(ctx *fiber.Ctx) error {
	docs, err := c.service.List(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Documents retrieved", docs))
}

func (c *docsController) Search(ctx *fiber.Ctx) error {
	query := ctx.Query("q")
	if query == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "query parameter 'q' is required"))
	}
	topK := ctx.QueryInt("top_k", 5)

	results, err := c.service.Search(ctx.Context(), query, topK)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Search results", fiber.Map{"results": results}))
}
