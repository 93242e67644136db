package services

import (
	"context"
	"fmt"

	"github.com/groupmod/backend/internal/events"
	"github.com/groupmod/backend/internal/roblox"
	"go.uber.org/zap"
)

// AuditSyncService copies the newest audit log page of each group into the
// archive and announces entries it had not seen before.
type AuditSyncService struct {
	client    GroupsClient
	archive   AuditArchive
	publisher events.Publisher
	log       *zap.Logger
}

func NewAuditSyncService(client GroupsClient, archive AuditArchive, publisher events.Publisher, log *zap.Logger) *AuditSyncService {
	return &AuditSyncService{client: client, archive: archive, publisher: publisher, log: log}
}

// SyncGroup returns the number of newly archived entries.
func (s *AuditSyncService) SyncGroup(ctx context.Context, session roblox.Session, groupID int64) (int, error) {
	page, err := s.client.GetAuditLog(ctx, session, roblox.AuditLogQuery{
		Group:      groupID,
		ActionType: roblox.ActionAll,
		SortOrder:  roblox.SortDesc,
	})
	if err != nil {
		return 0, fmt.Errorf("fetch audit log for group %d: %w", groupID, err)
	}

	inserted, err := s.archive.SaveEntries(ctx, groupID, page.Entries)
	if err != nil {
		return 0, fmt.Errorf("archive audit log for group %d: %w", groupID, err)
	}

	// inserted is newest first; announce in chronological order
	for i := len(inserted) - 1; i >= 0; i-- {
		if err := s.publisher.Publish(ctx, events.StreamAudit, events.NewAuditEntryEvent(groupID, inserted[i])); err != nil {
			s.log.Warn("failed to publish audit entry", zap.Int64("group_id", groupID), zap.Error(err))
		}
	}
	return len(inserted), nil
}

// SyncAll syncs each group in turn. A failing group is logged and skipped.
func (s *AuditSyncService) SyncAll(ctx context.Context, session roblox.Session, groupIDs []int64) {
	for _, id := range groupIDs {
		n, err := s.SyncGroup(ctx, session, id)
		if err != nil {
			s.log.Error("audit sync failed", zap.Int64("group_id", id), zap.Error(err))
			continue
		}
		s.log.Info("audit log synced", zap.Int64("group_id", id), zap.Int("new_entries", n))
	}
}
