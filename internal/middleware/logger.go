package middleware

import (
	"time"

	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/pkg/constant"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Logger logs every request through log and tags it with a request id,
// reusing the caller's X-Request-ID when present.
func Logger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get(constant.HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(constant.HeaderRequestID, requestID)
		c.Locals(constant.LocalsRequestID, requestID)

		if err := c.Next(); err != nil {
			// Let the app error handler write the response so the logged status is final.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.Int("status", status),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("query", string(c.Request().URI().QueryString())),
			zap.String("ip", c.IP()),
			zap.String("user-agent", c.Get(fiber.HeaderUserAgent)),
			zap.Duration("latency", time.Since(start)),
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			log.Error("Server Error", fields...)
		case status >= fiber.StatusBadRequest:
			log.Warn("Client Error", fields...)
		default:
			log.Info("Request", fields...)
		}
		return nil
	}
}

// RequestID returns the id Logger assigned to the current request.
func RequestID(c *fiber.Ctx) string {
	id, _ := c.Locals(constant.LocalsRequestID).(string)
	return id
}
