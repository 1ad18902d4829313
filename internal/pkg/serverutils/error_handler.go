package serverutils

import (
	"errors"

	"rag-chat-be/internal/pkg/apperror"
	"rag-chat-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

const internalErrorMessage = "Internal server error"

// StatusFor maps an error onto the HTTP status it is reported with.
func StatusFor(err error) int {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}

	switch apperror.KindOf(err) {
	case apperror.KindClientInput, apperror.KindExtraction:
		return fiber.StatusBadRequest
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandlerMiddleware renders errors returned by downstream handlers as {"error": "..."}.
// Internal errors are logged with their cause and reported with a generic message.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status := StatusFor(err)
		message := internalErrorMessage

		var appErr *apperror.Error
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &appErr) && appErr.Kind != apperror.KindInternal:
			message = appErr.Message
		case errors.As(err, &fiberErr):
			message = fiberErr.Message
		}

		if status >= fiber.StatusInternalServerError {
			log.Error("HTTP", "request failed", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"error":  err.Error(),
			})
		} else if appErr != nil && appErr.Err != nil {
			log.Warn("HTTP", appErr.Message, map[string]interface{}{
				"path":  ctx.Path(),
				"error": appErr.Err.Error(),
			})
		}

		return ctx.Status(status).JSON(ErrorResponse(message))
	}
}
