package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ArchivedAuditEntry is a remote audit log entry stored by the sync worker.
type ArchivedAuditEntry struct {
	ID          uuid.UUID       `json:"id"`
	GroupID     int64           `json:"group_id"`
	Fingerprint string          `json:"fingerprint"`
	ActionType  string          `json:"action_type"`
	ActorUserID int64           `json:"actor_user_id"`
	Actor       json.RawMessage `json:"actor,omitempty"`
	Description json.RawMessage `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	ArchivedAt  time.Time       `json:"archived_at"`
}

const (
	ModerationBan   = "ban"
	ModerationUnban = "unban"
)

// ModerationAction records a ban list change issued through this backend.
type ModerationAction struct {
	ID           uuid.UUID `json:"id"`
	OperatorID   string    `json:"operator_id"`
	GroupID      int64     `json:"group_id"`
	TargetUserID int64     `json:"target_user_id"`
	Action       string    `json:"action"` // ban/unban
	Succeeded    bool      `json:"succeeded"`
	Error        *string   `json:"error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
