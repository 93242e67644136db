package repositories

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/groupmod/backend/internal/roblox"
)

func TestFingerprint(t *testing.T) {
	created := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	base := roblox.AuditLogEntry{
		ActionType:  "Remove Member",
		UserID:      7,
		Description: json.RawMessage(`{"TargetId":1,"TargetName":"x"}`),
		Created:     created,
	}

	reordered := base
	reordered.Description = json.RawMessage(`{ "TargetName": "x", "TargetId": 1 }`)
	if fingerprintOf(t, 1, base) != fingerprintOf(t, 1, reordered) {
		t.Error("key order in description should not change the fingerprint")
	}

	tests := []struct {
		name  string
		group int64
		edit  func(e *roblox.AuditLogEntry)
	}{
		{"other group", 2, func(e *roblox.AuditLogEntry) {}},
		{"other action", 1, func(e *roblox.AuditLogEntry) { e.ActionType = "Change Rank" }},
		{"other actor", 1, func(e *roblox.AuditLogEntry) { e.UserID = 8 }},
		{"other time", 1, func(e *roblox.AuditLogEntry) { e.Created = created.Add(time.Second) }},
		{"other target", 1, func(e *roblox.AuditLogEntry) { e.Description = json.RawMessage(`{"TargetId":2}`) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := base
			tt.edit(&e)
			if fingerprintOf(t, 1, base) == fingerprintOf(t, tt.group, e) {
				t.Errorf("expected different fingerprint")
			}
		})
	}
}

func fingerprintOf(t *testing.T, group int64, e roblox.AuditLogEntry) string {
	t.Helper()
	s, err := Fingerprint(group, e)
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	return s
}

func TestNullableJSON(t *testing.T) {
	if nullableJSON(nil) != nil {
		t.Error("nil raw should map to NULL")
	}
	if nullableJSON(json.RawMessage("null")) != nil {
		t.Error("json null should map to NULL")
	}
	if got := nullableJSON(json.RawMessage(`{"a":1}`)); got != `{"a":1}` {
		t.Errorf("got %v", got)
	}
}
