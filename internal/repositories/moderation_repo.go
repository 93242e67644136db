package repositories

import (
	"context"

	"github.com/groupmod/backend/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ModerationRepo struct {
	pool *pgxpool.Pool
}

func NewModerationRepo(pool *pgxpool.Pool) *ModerationRepo {
	return &ModerationRepo{pool: pool}
}

func (r *ModerationRepo) Log(ctx context.Context, a models.ModerationAction) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO moderation_actions (operator_id, group_id, target_user_id, action, succeeded, error)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, a.OperatorID, a.GroupID, a.TargetUserID, a.Action, a.Succeeded, a.Error)
	return err
}

func (r *ModerationRepo) ListByGroup(ctx context.Context, groupID int64, limit, offset int) ([]models.ModerationAction, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, operator_id, group_id, target_user_id, action, succeeded, error, created_at
		FROM moderation_actions WHERE group_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, groupID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []models.ModerationAction
	for rows.Next() {
		var a models.ModerationAction
		if err := rows.Scan(&a.ID, &a.OperatorID, &a.GroupID, &a.TargetUserID, &a.Action, &a.Succeeded, &a.Error, &a.CreatedAt); err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}
