package services

import (
	"context"
	"sync"

	"github.com/groupmod/backend/internal/events"
	"github.com/groupmod/backend/internal/models"
	"github.com/groupmod/backend/internal/repositories"
	"github.com/groupmod/backend/internal/roblox"
)

// --- Mock groups client ---

type mockGroupsClient struct {
	page     *roblox.AuditPage
	auditErr error
	banErr   error
	queries  []roblox.AuditLogQuery
	bans     []int64
	unbans   []int64
}

func (m *mockGroupsClient) GetAuditLog(_ context.Context, _ roblox.Session, q roblox.AuditLogQuery) (*roblox.AuditPage, error) {
	m.queries = append(m.queries, q)
	if m.auditErr != nil {
		return nil, m.auditErr
	}
	return m.page, nil
}

func (m *mockGroupsClient) Ban(_ context.Context, _ roblox.Session, _, target int64) error {
	m.bans = append(m.bans, target)
	return m.banErr
}

func (m *mockGroupsClient) Unban(_ context.Context, _ roblox.Session, _, target int64) error {
	m.unbans = append(m.unbans, target)
	return m.banErr
}

// --- Mock moderation log ---

type mockModerationLog struct {
	actions []models.ModerationAction
}

func (m *mockModerationLog) Log(_ context.Context, a models.ModerationAction) error {
	m.actions = append(m.actions, a)
	return nil
}

func (m *mockModerationLog) ListByGroup(_ context.Context, groupID int64, _, _ int) ([]models.ModerationAction, error) {
	var out []models.ModerationAction
	for _, a := range m.actions {
		if a.GroupID == groupID {
			out = append(out, a)
		}
	}
	return out, nil
}

// --- Mock archive ---

type mockArchive struct {
	seen map[string]bool
}

func newMockArchive() *mockArchive {
	return &mockArchive{seen: make(map[string]bool)}
}

func (m *mockArchive) SaveEntries(_ context.Context, groupID int64, entries []roblox.AuditLogEntry) ([]roblox.AuditLogEntry, error) {
	var inserted []roblox.AuditLogEntry
	for _, e := range entries {
		fp, err := repositories.Fingerprint(groupID, e)
		if err != nil {
			return nil, err
		}
		if m.seen[fp] {
			continue
		}
		m.seen[fp] = true
		inserted = append(inserted, e)
	}
	return inserted, nil
}

func (m *mockArchive) List(_ context.Context, _ repositories.AuditArchiveFilter) ([]models.ArchivedAuditEntry, error) {
	return nil, nil
}

// --- Mock publisher ---

type published struct {
	stream string
	event  events.Event
}

type mockPublisher struct {
	mu     sync.Mutex
	events []published
}

func (m *mockPublisher) Publish(_ context.Context, stream string, e events.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, published{stream, e})
	return nil
}

// --- Mock token invalidator ---

type mockInvalidator struct {
	calls int
}

func (m *mockInvalidator) Invalidate(_ context.Context, _ roblox.Session) error {
	m.calls++
	return nil
}
