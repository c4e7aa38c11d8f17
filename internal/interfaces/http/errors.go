package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/qualistock/internal/application/dto"
	"github.com/jhoicas/qualistock/internal/domain"
)

// Códigos de error expuestos al navegador.
const (
	CodeValidation     = "VALIDATION"
	CodeInvalidBody    = "INVALID_BODY"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeSessionExpired = "SESSION_EXPIRED"
	CodeForbidden      = "FORBIDDEN"
	CodeNotFound       = "NOT_FOUND"
	CodeConflict       = "CONFLICT"
	CodeBackendDown    = "BACKEND_UNAVAILABLE"
	CodeInternal       = "INTERNAL"
)

// statusFor traduce un error de dominio a status HTTP y código. Es el único punto de mapeo.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrSessionExpired):
		return fiber.StatusUnauthorized, CodeSessionExpired
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrNoSession):
		return fiber.StatusUnauthorized, CodeUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, CodeForbidden
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, CodeNotFound
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrBatchInfoRequired):
		return fiber.StatusBadRequest, CodeValidation
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, CodeConflict
	case errors.Is(err, domain.ErrBackendUnavailable):
		return fiber.StatusBadGateway, CodeBackendDown
	default:
		return fiber.StatusInternalServerError, CodeInternal
	}
}

// writeError responde {code, message} con el status que corresponde al error.
func writeError(c *fiber.Ctx, err error) error {
	status, code := statusFor(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "error interno"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// ErrorHandler handler de errores de fiber: errores de dominio con su status, *fiber.Error con el suyo.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: codeForStatus(fe.Code), Message: fe.Message})
	}
	return writeError(c, err)
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return CodeNotFound
	case fiber.StatusUnauthorized:
		return CodeUnauthorized
	case fiber.StatusForbidden:
		return CodeForbidden
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return CodeValidation
	default:
		return CodeInternal
	}
}
