package api

import (
	"errors"

	"replygate-core/internal/domain/entity"
	"replygate-core/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type DecisionHandler struct {
	pipeline *usecase.Pipeline
}

func NewDecisionHandler(pipeline *usecase.Pipeline) *DecisionHandler {
	return &DecisionHandler{pipeline: pipeline}
}

func (h *DecisionHandler) HandleDecide(c *fiber.Ctx) error {
	var gc entity.GenerationContext
	if err := c.BodyParser(&gc); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	// The delivery layer maps the business error to HTTP status codes
	result, err := h.pipeline.Decide(c.Context(), gc)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrInvalidRequest):
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, entity.ErrSettingsUnavailable):
			return c.Status(503).JSON(fiber.Map{"error": "settings store unavailable"})
		default:
			return c.Status(500).JSON(fiber.Map{"error": "internal decision error"})
		}
	}

	c.Set("X-Replygate-Decision", string(result.Decision))
	return c.Status(200).JSON(result)
}
