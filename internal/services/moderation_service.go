package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/groupmod/backend/internal/events"
	"github.com/groupmod/backend/internal/models"
	"github.com/groupmod/backend/internal/repositories"
	"github.com/groupmod/backend/internal/roblox"
	"go.uber.org/zap"
)

// GroupsClient is the subset of *roblox.Client the services depend on.
type GroupsClient interface {
	GetAuditLog(ctx context.Context, session roblox.Session, q roblox.AuditLogQuery) (*roblox.AuditPage, error)
	Ban(ctx context.Context, session roblox.Session, group, target int64) error
	Unban(ctx context.Context, session roblox.Session, group, target int64) error
}

type ModerationLog interface {
	Log(ctx context.Context, a models.ModerationAction) error
	ListByGroup(ctx context.Context, groupID int64, limit, offset int) ([]models.ModerationAction, error)
}

type AuditArchive interface {
	SaveEntries(ctx context.Context, groupID int64, entries []roblox.AuditLogEntry) ([]roblox.AuditLogEntry, error)
	List(ctx context.Context, f repositories.AuditArchiveFilter) ([]models.ArchivedAuditEntry, error)
}

// TokenInvalidator drops a cached csrf token, see roblox.CachedTokenProvider.
type TokenInvalidator interface {
	Invalidate(ctx context.Context, session roblox.Session) error
}

type ModerationService struct {
	client     GroupsClient
	moderation ModerationLog
	archive    AuditArchive
	publisher  events.Publisher
	tokens     TokenInvalidator
	log        *zap.Logger
}

func NewModerationService(
	client GroupsClient,
	moderation ModerationLog,
	archive AuditArchive,
	publisher events.Publisher,
	tokens TokenInvalidator,
	log *zap.Logger,
) *ModerationService {
	return &ModerationService{
		client:     client,
		moderation: moderation,
		archive:    archive,
		publisher:  publisher,
		tokens:     tokens,
		log:        log,
	}
}

func (s *ModerationService) GetAuditLog(ctx context.Context, session roblox.Session, q roblox.AuditLogQuery) (*roblox.AuditPage, error) {
	return s.client.GetAuditLog(ctx, session, q)
}

func (s *ModerationService) Ban(ctx context.Context, session roblox.Session, operatorID string, group, target int64) error {
	return s.changeBan(ctx, session, models.ModerationBan, operatorID, group, target)
}

func (s *ModerationService) Unban(ctx context.Context, session roblox.Session, operatorID string, group, target int64) error {
	return s.changeBan(ctx, session, models.ModerationUnban, operatorID, group, target)
}

func (s *ModerationService) changeBan(ctx context.Context, session roblox.Session, action, operatorID string, group, target int64) error {
	var err error
	eventType := events.EventMemberBanned
	if action == models.ModerationBan {
		err = s.client.Ban(ctx, session, group, target)
	} else {
		err = s.client.Unban(ctx, session, group, target)
		eventType = events.EventMemberUnbanned
	}

	record := models.ModerationAction{
		OperatorID:   operatorID,
		GroupID:      group,
		TargetUserID: target,
		Action:       action,
		Succeeded:    err == nil,
	}
	if err != nil {
		msg := err.Error()
		record.Error = &msg
	}
	if lerr := s.moderation.Log(ctx, record); lerr != nil {
		s.log.Error("failed to record moderation action", zap.String("action", action), zap.Error(lerr))
	}

	if err != nil {
		// A rejected token is only refreshed on the next call; nothing is retried here.
		var rerr *roblox.RemoteError
		if errors.As(err, &rerr) && rerr.StatusCode == http.StatusForbidden && s.tokens != nil {
			if ierr := s.tokens.Invalidate(ctx, session); ierr != nil {
				s.log.Warn("failed to invalidate csrf token", zap.Error(ierr))
			}
		}
		return err
	}

	s.log.Info("ban list changed",
		zap.String("action", action),
		zap.String("operator_id", operatorID),
		zap.Int64("group_id", group),
		zap.Int64("target_user_id", target),
	)

	if perr := s.publisher.Publish(ctx, events.StreamModeration, events.NewBanEvent(eventType, group, target, operatorID)); perr != nil {
		s.log.Warn("failed to publish moderation event", zap.Error(perr))
	}
	return nil
}

func (s *ModerationService) ListArchive(ctx context.Context, f repositories.AuditArchiveFilter) ([]models.ArchivedAuditEntry, error) {
	return s.archive.List(ctx, f)
}

func (s *ModerationService) ListModerationActions(ctx context.Context, groupID int64, limit, offset int) ([]models.ModerationAction, error) {
	return s.moderation.ListByGroup(ctx, groupID, limit, offset)
}
