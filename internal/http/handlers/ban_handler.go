package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/groupmod/backend/internal/http/dto"
	"github.com/groupmod/backend/internal/middleware"
	"github.com/groupmod/backend/internal/roblox"
	"github.com/groupmod/backend/internal/services"
	"go.uber.org/zap"
)

type BanHandler struct {
	service *services.ModerationService
	session roblox.Session
	log     *zap.Logger
}

func NewBanHandler(service *services.ModerationService, session roblox.Session, log *zap.Logger) *BanHandler {
	return &BanHandler{service: service, session: session, log: log}
}

func (h *BanHandler) Ban(c *fiber.Ctx) error {
	groupID, userID, ok := h.parseTarget(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid group or user id"})
	}

	if err := h.service.Ban(c.UserContext(), h.session, middleware.GetOperatorID(c), groupID, userID); err != nil {
		return writeUpstreamError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *BanHandler) Unban(c *fiber.Ctx) error {
	groupID, userID, ok := h.parseTarget(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid group or user id"})
	}

	if err := h.service.Unban(c.UserContext(), h.session, middleware.GetOperatorID(c), groupID, userID); err != nil {
		return writeUpstreamError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *BanHandler) ListActions(c *fiber.Ctx) error {
	groupID, ok := parseID(c, "groupId")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid group id"})
	}

	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)
	actions, err := h.service.ListModerationActions(c.UserContext(), groupID, limit, offset)
	if err != nil {
		h.log.Error("list moderation actions failed", zap.Int64("group_id", groupID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(dto.PagedResponse{OK: true, Data: actions, Limit: limit, Offset: offset})
}

func (h *BanHandler) parseTarget(c *fiber.Ctx) (int64, int64, bool) {
	groupID, ok := parseID(c, "groupId")
	if !ok {
		return 0, 0, false
	}
	userID, ok := parseID(c, "userId")
	if !ok {
		return 0, 0, false
	}
	return groupID, userID, true
}
