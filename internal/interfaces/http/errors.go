package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
)

// respondError mapea los errores de dominio a códigos HTTP. Todo error de
// negocio llega aquí como sentinel (errors.Is); lo demás es 500.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrEmptyLines),
		errors.Is(err, domain.ErrVariantDirectUse),
		errors.Is(err, domain.ErrSerialCountMismatch),
		errors.Is(err, domain.ErrLotCodeRequired),
		errors.Is(err, domain.ErrExpirationRequired),
		errors.Is(err, domain.ErrInvalidTrackingKind),
		errors.Is(err, domain.ErrReasonRequired):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrInsufficientLotStock),
		errors.Is(err, domain.ErrDuplicateSerial),
		errors.Is(err, domain.ErrSerialsNotFound),
		errors.Is(err, domain.ErrNoSuitableBatch):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "STOCK_CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
