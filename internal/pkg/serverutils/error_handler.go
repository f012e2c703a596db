package serverutils

import (
	"errors"

	"ai-symptomcheck-be/pkg/generation"
	"ai-symptomcheck-be/pkg/orchestrator"
	"ai-symptomcheck-be/pkg/retrieval"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps pipeline errors to transport status codes:
// bad input 400, retrieval outage 503, generation timeout 504, generation
// failure 502. Anything unclassified is a 500 with a generic message.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		var validationErr *ValidationError

		switch {
		case errors.As(err, &validationErr):
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(validationErr.Error()))
		case errors.Is(err, orchestrator.ErrInvalidInput):
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, retrieval.ErrRetrievalUnavailable):
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse("knowledge retrieval is temporarily unavailable"))
		case errors.Is(err, generation.ErrGenerationTimeout):
			return ctx.Status(fiber.StatusGatewayTimeout).JSON(ErrorResponse("answer generation timed out"))
		case errors.Is(err, generation.ErrGenerationFailure):
			return ctx.Status(fiber.StatusBadGateway).JSON(ErrorResponse("answer generation failed"))
		case errors.As(err, &fiberErr):
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		default:
			return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("internal server error"))
		}
	}
}
