package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"caseflow-be/internal/apperror"
)

// ErrorHandlerMiddleware translates service-layer errors into the response
// envelope. Controllers just return errors; this is the only place that knows
// the HTTP mapping.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var validationErr *apperror.ValidationError
		if errors.As(err, &validationErr) {
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorBody{
				Message: "Validation failed",
				Fields:  validationErr.Fields,
			})
		}

		if errors.Is(err, apperror.ErrUnknownStatus) || errors.Is(err, apperror.ErrUnknownStep) || errors.Is(err, apperror.ErrUnknownFlow) {
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorBody{Message: err.Error()})
		}

		if errors.Is(err, apperror.ErrStepNotAccessible) {
			return ctx.Status(fiber.StatusForbidden).JSON(ErrorBody{Message: err.Error()})
		}

		if errors.Is(err, apperror.ErrNotAuthenticated) {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorBody{Message: "Not authenticated with the case service"})
		}

		if errors.Is(err, apperror.ErrCaseNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorBody{Message: "Case not found"})
		}

		var upstreamErr *apperror.UpstreamError
		if errors.As(err, &upstreamErr) {
			return ctx.Status(fiber.StatusBadGateway).JSON(ErrorBody{Message: upstreamErr.Error()})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorBody{Message: fiberErr.Message})
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorBody{Message: "Internal server error"})
	}
}
