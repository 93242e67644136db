package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/groupmod/backend/internal/http/dto"
	"github.com/groupmod/backend/internal/middleware"
	"github.com/groupmod/backend/internal/roblox"
	"go.uber.org/zap"
)

// writeUpstreamError maps a groups API failure onto the response. Client-side
// rejections (4xx) keep their status and message; anything else is a 502.
func writeUpstreamError(c *fiber.Ctx, log *zap.Logger, err error) error {
	reqID := middleware.GetRequestID(c)

	var rerr *roblox.RemoteError
	if errors.As(err, &rerr) {
		status := fiber.StatusBadGateway
		if rerr.StatusCode >= 400 && rerr.StatusCode < 500 {
			status = rerr.StatusCode
		}
		return c.Status(status).JSON(dto.ErrorResponse{Error: rerr.Error(), RequestID: reqID})
	}

	log.Error("groups api call failed", zap.String("request_id", reqID), zap.Error(err))
	return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Error: "groups api unavailable", RequestID: reqID})
}

func parseID(c *fiber.Ctx, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
