package events

import (
	"context"
	"time"

	"github.com/groupmod/backend/internal/roblox"
)

// Streams
const (
	StreamAudit      = "events:audit"
	StreamModeration = "events:moderation"
)

// Event types
const (
	EventAuditEntry     = "audit_entry"
	EventMemberBanned   = "member_banned"
	EventMemberUnbanned = "member_unbanned"
)

type Event struct {
	Type       string         `json:"type"`
	GroupID    int64          `json:"group_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, handler func(stream string, event Event), streams ...string) error
}

func NewAuditEntryEvent(groupID int64, e roblox.AuditLogEntry) Event {
	payload := map[string]any{
		"action_type": e.ActionType,
		"user_id":     e.UserID,
		"created":     e.Created,
	}
	if len(e.Description) > 0 {
		payload["description"] = e.Description
	}
	return Event{
		Type:       EventAuditEntry,
		GroupID:    groupID,
		OccurredAt: e.Created,
		Payload:    payload,
	}
}

func NewBanEvent(eventType string, groupID, targetUserID int64, operatorID string) Event {
	return Event{
		Type:       eventType,
		GroupID:    groupID,
		OccurredAt: time.Now().UTC(),
		Payload: map[string]any{
			"target_user_id": targetUserID,
			"operator_id":    operatorID,
		},
	}
}
