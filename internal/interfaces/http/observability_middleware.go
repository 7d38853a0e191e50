package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/jhoicas/comercializacion-api/pkg/logger"
	"github.com/jhoicas/comercializacion-api/pkg/metrics"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const localLogger = "logger"

// RequestLogger registra cada request (method, path, status, latencia, request_id)
// y deja un logger con request_id en c.Locals para el mapeo de errores.
func RequestLogger(l *logger.Logger) fiber.Handler {
	base := l.Zerolog()
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqLog := base.With().Str("request_id", requestID(c)).Logger()
		c.Locals(localLogger, &reqLog)

		err := c.Next()
		if err != nil {
			// el ErrorHandler escribe la respuesta antes de leer el status
			if hErr := c.App().ErrorHandler(c, err); hErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		ev := reqLog.Info()
		if status >= fiber.StatusInternalServerError {
			ev = reqLog.Error()
		} else if status >= fiber.StatusBadRequest {
			ev = reqLog.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return nil
	}
}

// Metrics alimenta los contadores HTTP de Prometheus usando la ruta registrada como etiqueta.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/metrics") {
			return c.Next()
		}
		start := time.Now()
		metrics.HTTPRequestsInProgress.Inc()
		defer metrics.HTTPRequestsInProgress.Dec()

		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			status, _ = mapError(err)
		}
		// las etiquetas sobreviven al request; fasthttp reutiliza los buffers
		metrics.ObserveHTTP(utils.CopyString(c.Method()), utils.CopyString(c.Route().Path), status, time.Since(start))
		return err
	}
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(requestid.ConfigDefault.ContextKey).(string); ok {
		return id
	}
	return c.Get(fiber.HeaderXRequestID)
}

func requestLogger(c *fiber.Ctx) *zerolog.Logger {
	if l, ok := c.Locals(localLogger).(*zerolog.Logger); ok {
		return l
	}
	return &log.Logger
}
