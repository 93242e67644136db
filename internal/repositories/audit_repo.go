package repositories

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/groupmod/backend/internal/models"
	"github.com/groupmod/backend/internal/roblox"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AuditArchiveRepo struct {
	pool *pgxpool.Pool
}

func NewAuditArchiveRepo(pool *pgxpool.Pool) *AuditArchiveRepo {
	return &AuditArchiveRepo{pool: pool}
}

// SaveEntries archives entries for a group and returns the ones that were not
// already stored. Entries are identified by their content fingerprint.
func (r *AuditArchiveRepo) SaveEntries(ctx context.Context, groupID int64, entries []roblox.AuditLogEntry) ([]roblox.AuditLogEntry, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}

	var inserted []roblox.AuditLogEntry
	for _, e := range entries {
		fp, err := Fingerprint(groupID, e)
		if err != nil {
			_ = tx.Rollback(ctx)
			return nil, err
		}

		var actor any
		if e.Actor != nil {
			b, err := json.Marshal(e.Actor)
			if err != nil {
				_ = tx.Rollback(ctx)
				return nil, err
			}
			actor = string(b)
		}

		tag, err := tx.Exec(ctx, `
			INSERT INTO audit_archive (group_id, fingerprint, action_type, actor_user_id, actor, description, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (group_id, fingerprint) DO NOTHING
		`, groupID, fp, e.ActionType, e.UserID, actor, nullableJSON(e.Description), e.Created)
		if err != nil {
			_ = tx.Rollback(ctx)
			return nil, fmt.Errorf("insert audit entry: %w", err)
		}
		if tag.RowsAffected() == 1 {
			inserted = append(inserted, e)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return inserted, nil
}

type AuditArchiveFilter struct {
	GroupID    int64
	ActionType *string
	Limit      int
	Offset     int
}

func (r *AuditArchiveRepo) List(ctx context.Context, f AuditArchiveFilter) ([]models.ArchivedAuditEntry, error) {
	if f.Limit <= 0 {
		f.Limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, group_id, fingerprint, action_type, actor_user_id, actor, description, created_at, archived_at
		FROM audit_archive
		WHERE group_id = $1 AND ($2::text IS NULL OR action_type = $2)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4
	`, f.GroupID, f.ActionType, f.Limit, f.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ArchivedAuditEntry
	for rows.Next() {
		var e models.ArchivedAuditEntry
		var actor, description []byte
		if err := rows.Scan(&e.ID, &e.GroupID, &e.Fingerprint, &e.ActionType, &e.ActorUserID, &actor, &description, &e.CreatedAt, &e.ArchivedAt); err != nil {
			return nil, err
		}
		e.Actor = actor
		e.Description = description
		out = append(out, e)
	}
	return out, rows.Err()
}

// Fingerprint identifies an entry within a group. The remote API exposes no
// entry id, so the hash covers every field it returns.
func Fingerprint(groupID int64, e roblox.AuditLogEntry) (string, error) {
	actor, err := json.Marshal(e.Actor)
	if err != nil {
		return "", err
	}

	h := sha256.New()
	for _, part := range [][]byte{
		[]byte(strconv.FormatInt(groupID, 10)),
		[]byte(e.ActionType),
		[]byte(strconv.FormatInt(e.UserID, 10)),
		[]byte(strconv.FormatInt(e.Created.Unix(), 10)),
		actor,
		compactJSON(e.Description),
	} {
		h.Write(part)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func compactJSON(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return nil
	}
	var m any
	if err := json.Unmarshal(raw, &m); err != nil {
		return raw
	}
	// Marshal sorts object keys, so key order in the response does not matter.
	b, err := json.Marshal(m)
	if err != nil {
		return raw
	}
	return b
}

func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return string(raw)
}
