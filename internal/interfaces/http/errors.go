package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/jhoicas/comercializacion-api/internal/application/dto"
	"github.com/jhoicas/comercializacion-api/internal/domain"
	"github.com/jhoicas/comercializacion-api/pkg/metrics"
)

// respondError traduce errores de dominio a status + ErrorResponse. Los 5xx se registran y no exponen detalle.
func respondError(c *fiber.Ctx, err error) error {
	status, body := mapError(err)
	if status >= fiber.StatusInternalServerError {
		requestLogger(c).Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("error interno")
	}
	if status == fiber.StatusConflict && body.Code == "INSUFFICIENT_STOCK" {
		metrics.StockRejectionsTotal.WithLabelValues(utils.CopyString(c.Route().Path)).Inc()
	}
	return c.Status(status).JSON(body)
}

func mapError(err error) (int, dto.ErrorResponse) {
	var (
		validation *domain.ValidationError
		stock      *domain.InsufficientStockError
		state      *domain.InvalidStateError
		fe         *fiber.Error
	)
	switch {
	case errors.As(err, &validation):
		body := dto.ErrorResponse{Code: "VALIDATION", Message: validation.Error()}
		if validation.Field != "" {
			body.Fields = map[string]string{validation.Field: validation.Reason}
		}
		return fiber.StatusBadRequest, body
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()}
	case errors.As(err, &stock):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: stock.Error()}
	case errors.As(err, &state):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INVALID_STATE", Message: state.Error()}
	case errors.Is(err, domain.ErrInvalidState):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INVALID_STATE", Message: err.Error()}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: "cuenta inactiva"}
	case errors.Is(err, domain.ErrPersistence):
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "PERSISTENCE", Message: "error de persistencia"}
	case errors.As(err, &fe):
		return fe.Code, dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"}
	}
}

// ErrorHandler para fiber.Config: errores que escapan de los handlers (rutas inexistentes, panics recuperados).
func ErrorHandler(c *fiber.Ctx, err error) error {
	return respondError(c, err)
}
