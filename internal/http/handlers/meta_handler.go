package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/groupmod/backend/internal/http/dto"
	"github.com/groupmod/backend/internal/roblox"
)

type MetaHandler struct{}

func NewMetaHandler() *MetaHandler {
	return &MetaHandler{}
}

type MetaActionType struct {
	ID         roblox.ActionType `json:"id"`
	Membership bool              `json:"membership"`
}

func (h *MetaHandler) GetActionTypes(c *fiber.Ctx) error {
	types := roblox.ActionTypes()
	out := make([]MetaActionType, 0, len(types)+1)
	out = append(out, MetaActionType{ID: roblox.ActionAll})
	for _, t := range types {
		out = append(out, MetaActionType{
			ID:         t,
			Membership: t == roblox.ActionJoinGroup || t == roblox.ActionLeaveGroup,
		})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: out})
}

func (h *MetaHandler) GetSortOrders(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: []roblox.SortOrder{roblox.SortAsc, roblox.SortDesc}})
}
