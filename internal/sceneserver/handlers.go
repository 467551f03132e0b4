package sceneserver

import (
	"RoomEditor/internal/logger"
	"RoomEditor/internal/scene"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

func liveness(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

// readiness checks that the backing store answers.
func (s *Server) readiness(c fiber.Ctx) error {
	if _, _, err := s.kv.Get(c.Context(), keyPrefix+"_ready"); err != nil {
		logger.Log.Warn("Storage not ready", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}

func sceneID(c fiber.Ctx) (string, error) {
	id := c.Params("id")
	if !validID.MatchString(id) {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid scene id")
	}
	return id, nil
}

func (s *Server) getScene(c fiber.Ctx) error {
	id, err := sceneID(c)
	if err != nil {
		return err
	}
	data, ok, err := s.kv.Get(c.Context(), keyPrefix+id)
	if err != nil {
		return err
	}
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "scene not found")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(data)
}

func (s *Server) putScene(c fiber.Ctx) error {
	id, err := sceneID(c)
	if err != nil {
		return err
	}
	sc, err := scene.Decode(c.Body())
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	data, err := scene.Encode(sc)
	if err != nil {
		return err
	}
	if err := s.kv.Set(c.Context(), keyPrefix+id, data); err != nil {
		return err
	}
	logger.Log.Info("Scene stored",
		zap.String("scene", id),
		zap.Int("floors", len(sc.Floors)),
		zap.Int("furniture", sc.FurnitureCount()))
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) deleteScene(c fiber.Ctx) error {
	id, err := sceneID(c)
	if err != nil {
		return err
	}
	if err := s.kv.Delete(c.Context(), keyPrefix+id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
