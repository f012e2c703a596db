package controller

import (
	"ai-symptomcheck-be/internal/dto"
	"ai-symptomcheck-be/internal/pkg/serverutils"
	"ai-symptomcheck-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	SendChat(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("", c.SendChat)
	h.Get("history/:session_id", c.GetHistory)

	r.Get("/health/v1", c.Health)
}

func (c *chatController) SendChat(ctx *fiber.Ctx) error {
	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.SendChat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send chat", res))
}

func (c *chatController) GetHistory(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("session_id")
	limit := ctx.QueryInt("limit", 50)

	res, err := c.chatService.GetHistory(ctx.Context(), sessionId, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get history", res))
}

func (c *chatController) Health(ctx *fiber.Ctx) error {
	res := c.chatService.Health(ctx.Context())
	if res.Status != "ok" {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(serverutils.SuccessResponse("Health degraded", res))
	}
	return ctx.JSON(serverutils.SuccessResponse("Healthy", res))
}
