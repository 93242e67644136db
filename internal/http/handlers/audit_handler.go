package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/groupmod/backend/internal/http/dto"
	"github.com/groupmod/backend/internal/repositories"
	"github.com/groupmod/backend/internal/roblox"
	"github.com/groupmod/backend/internal/services"
	"go.uber.org/zap"
)

type AuditHandler struct {
	service *services.ModerationService
	session roblox.Session
	log     *zap.Logger
}

func NewAuditHandler(service *services.ModerationService, session roblox.Session, log *zap.Logger) *AuditHandler {
	return &AuditHandler{service: service, session: session, log: log}
}

// GetAuditLog proxies one page of the live audit log.
func (h *AuditHandler) GetAuditLog(c *fiber.Ctx) error {
	groupID, ok := parseID(c, "groupId")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid group id"})
	}

	q := roblox.AuditLogQuery{
		Group:      groupID,
		ActionType: roblox.ActionType(c.Query("actionType")),
		Limit:      queryInt(c, "limit", roblox.DefaultAuditLimit),
		Cursor:     c.Query("cursor"),
	}
	if q.ActionType != "" && !q.ActionType.IsKnown() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "unknown action type"})
	}

	switch order := roblox.SortOrder(c.Query("sortOrder")); order {
	case "", roblox.SortAsc, roblox.SortDesc:
		q.SortOrder = order
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "sortOrder must be Asc or Desc"})
	}

	if v := c.Query("userId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid user id"})
		}
		q.UserID = id
	}

	page, err := h.service.GetAuditLog(c.UserContext(), h.session, q)
	if err != nil {
		return writeUpstreamError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: page})
}

// ListArchive returns archived entries, newest first.
func (h *AuditHandler) ListArchive(c *fiber.Ctx) error {
	groupID, ok := parseID(c, "groupId")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid group id"})
	}

	filter := repositories.AuditArchiveFilter{
		GroupID: groupID,
		Limit:   queryInt(c, "limit", 50),
		Offset:  queryInt(c, "offset", 0),
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if v := c.Query("actionType"); v != "" {
		filter.ActionType = &v
	}

	entries, err := h.service.ListArchive(c.UserContext(), filter)
	if err != nil {
		h.log.Error("list audit archive failed", zap.Int64("group_id", groupID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(dto.PagedResponse{OK: true, Data: entries, Limit: filter.Limit, Offset: filter.Offset})
}
