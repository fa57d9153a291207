package repository

import (
	"context"

	"condoadmin-backend/internal/db"
	"condoadmin-backend/internal/domain"
	"github.com/jackc/pgx/v5"
)

type AuditLogRepository struct {
	DB *db.Postgres
}

type CreateAuditLogInput struct {
	UserID   int64
	Action   string
	Entity   string
	EntityID int64
}

// InsertWithTx appends an audit entry inside an existing transaction.
func (r AuditLogRepository) InsertWithTx(ctx context.Context, tx pgx.Tx, in CreateAuditLogInput) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO audit_logs (user_id, action, entity, entity_id, logged_at)
		VALUES ($1,$2,$3,$4, now())
		RETURNING id
	`, in.UserID, in.Action, in.Entity, in.EntityID).Scan(&id)
	return id, err
}

func (r AuditLogRepository) List(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, user_id, action, entity, entity_id, logged_at
		FROM audit_logs
		ORDER BY logged_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AuditLog
	for rows.Next() {
		var l domain.AuditLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Action, &l.Entity, &l.EntityID, &l.LoggedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
