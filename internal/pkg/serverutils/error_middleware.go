package serverutils

import (
	"errors"

	"realty-agent-be/pkg/sensay"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware translates the error taxonomy into HTTP responses:
//   - missing credential       -> 428 blocking configuration notice
//   - duplicate slug           -> 409 with a slug field error
//   - validation failures      -> 400 with field errors
//   - any other remote failure -> 502 transient envelope
//
// Nothing here retries; recovery is always manual (the user re-submits or
// refreshes).
func ErrorHandlerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err == nil {
			return nil
		}

		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			return c.Status(fiber.StatusBadRequest).JSON(
				FieldErrorResponse(fiber.StatusBadRequest, "Validation failed", validationErr.Fields))
		}

		if errors.Is(err, sensay.ErrMissingSecret) {
			// Blocking configuration notice: the dashboard swaps to the
			// credential setup screen on this code, not a toast.
			return c.Status(fiber.StatusPreconditionRequired).JSON(
				ErrorResponse(fiber.StatusPreconditionRequired, "Organization secret is not configured"))
		}

		if errors.Is(err, sensay.ErrSlugTaken) {
			return c.Status(fiber.StatusConflict).JSON(
				FieldErrorResponse(fiber.StatusConflict, "Slug conflict",
					map[string]string{"slug": "This web address is already taken. Please choose another one."}))
		}

		var uploadErr *sensay.UploadError
		if errors.As(err, &uploadErr) {
			msg := "The file upload could not be completed. Please try submitting the file again."
			if uploadErr.Phase == sensay.UploadPhaseNegotiate {
				msg = "Could not obtain an upload slot from the platform. The file was not uploaded."
			}
			return c.Status(fiber.StatusBadGateway).JSON(
				ErrorResponse(fiber.StatusBadGateway, msg))
		}

		var apiErr *sensay.APIError
		if errors.As(err, &apiErr) {
			return c.Status(fiber.StatusBadGateway).JSON(
				ErrorResponse(fiber.StatusBadGateway, "The platform rejected the request: "+apiErr.Message))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		return c.Status(fiber.StatusInternalServerError).JSON(
			ErrorResponse(fiber.StatusInternalServerError, err.Error()))
	}
}
