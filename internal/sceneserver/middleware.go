package sceneserver

import (
	"errors"
	"strconv"
	"time"

	"RoomEditor/internal/logger"
	"RoomEditor/internal/metrics"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// requestLogger logs every request and counts it by method and status.
func requestLogger(m *metrics.Metrics) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		m.Request(c.Method(), strconv.Itoa(status))
		logger.Log.Info("Request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)))
		return err
	}
}
