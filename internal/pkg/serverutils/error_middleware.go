package serverutils

import (
	"errors"

	"collabnote-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps service errors to HTTP responses. The
// services speak apperror kinds only; this is the single place a kind
// becomes a status code. Authorization failures always surface.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status := fiber.StatusInternalServerError
		message := "Internal server error"

		switch apperror.KindOf(err) {
		case apperror.KindValidation:
			status = fiber.StatusBadRequest
			message = err.Error()
		case apperror.KindNotFound:
			status = fiber.StatusNotFound
			message = err.Error()
		case apperror.KindForbidden:
			status = fiber.StatusForbidden
			message = err.Error()
		case apperror.KindConflict:
			status = fiber.StatusConflict
			message = err.Error()
		case apperror.KindStorage:
			// Storage details stay out of responses.
			status = fiber.StatusInternalServerError
			message = "Storage failure, please retry"
		default:
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				status = fiberErr.Code
				message = fiberErr.Message
			}
		}

		return ctx.Status(status).JSON(fiber.Map{
			"success": false,
			"message": message,
		})
	}
}
