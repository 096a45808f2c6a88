package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"video-labeling-be/internal/pkg/apperrors"
)

// ErrorHandlerMiddleware translates the service error taxonomy into HTTP
// status codes: validation and decode failures are the caller's fault (400),
// missing staged ids and sidecars are 404, permission problems are 403, and
// everything else surfaces as 500 with its detail in the body.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(fiber.Map{
				"status":  "error",
				"message": fiberErr.Message,
			})
		}

		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrDecode):
			status = fiber.StatusBadRequest
		case errors.Is(err, apperrors.ErrNotFound):
			status = fiber.StatusNotFound
		case errors.Is(err, apperrors.ErrAccess):
			status = fiber.StatusForbidden
		}

		return ctx.Status(status).JSON(fiber.Map{
			"status":  "error",
			"message": err.Error(),
		})
	}
}
