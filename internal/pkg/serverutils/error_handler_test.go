package serverutils

import (
	"net/http/httptest"
	"testing"

	"ai-symptomcheck-be/pkg/generation"
	"ai-symptomcheck-be/pkg/orchestrator"
	"ai-symptomcheck-be/pkg/retrieval"

	"github.com/gofiber/fiber/v2"
)

func TestErrorHandlerStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid input", orchestrator.ErrInvalidInput, fiber.StatusBadRequest},
		{"validation error", &ValidationError{Fields: []string{"SessionId failed on required"}}, fiber.StatusBadRequest},
		{"retrieval unavailable", retrieval.ErrRetrievalUnavailable, fiber.StatusServiceUnavailable},
		{"generation timeout", generation.ErrGenerationTimeout, fiber.StatusGatewayTimeout},
		{"generation failure", generation.ErrGenerationFailure, fiber.StatusBadGateway},
		{"fiber error passthrough", fiber.NewError(fiber.StatusTeapot, "teapot"), fiber.StatusTeapot},
		{"unclassified", assertError("boom"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(ErrorHandlerMiddleware())
			app.Get("/boom", func(c *fiber.Ctx) error {
				return tt.err
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}

type assertError string

func (e assertError) Error() string { return string(e) }

func TestValidateRequest(t *testing.T) {
	type req struct {
		SessionId string `validate:"required"`
		Limit     int    `validate:"min=0"`
	}

	if err := ValidateRequest(req{SessionId: "s"}); err != nil {
		t.Errorf("ValidateRequest() on valid input = %v", err)
	}

	err := ValidateRequest(req{})
	if err == nil {
		t.Fatal("ValidateRequest() accepted missing required field")
	}
	if _, ok := err.(*ValidationError); !ok {
		t.Errorf("ValidateRequest() error type = %T, want *ValidationError", err)
	}
}
