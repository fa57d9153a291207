package repository

import (
	"context"
	"errors"

	"condoadmin-backend/internal/db"
	"condoadmin-backend/internal/domain"
	"github.com/jackc/pgx/v5/pgtype"
)

// ErrVisitClosed is returned when exit is marked twice.
var ErrVisitClosed = errors.New("visit already checked out")

type VisitRepository struct {
	DB *db.Postgres
}

type CreateVisitInput struct {
	CondominiumID int64
	VisitorName   string
	VisitorRUT    string
	UnitNumber    string
	Patent        *string
	Comment       string
}

func (r VisitRepository) Create(ctx context.Context, in CreateVisitInput) (*domain.Visit, error) {
	var v domain.Visit
	var patent pgtype.Text
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO visits (condominium_id, visitor_name, visitor_rut, unit_number, patent, comment, entry_time)
		VALUES ($1,$2,$3,$4,$5,$6, now())
		RETURNING id, condominium_id, visitor_name, visitor_rut, unit_number, patent, comment, entry_time
	`, in.CondominiumID, in.VisitorName, in.VisitorRUT, in.UnitNumber, in.Patent, in.Comment).Scan(
		&v.ID, &v.CondominiumID, &v.VisitorName, &v.VisitorRUT, &v.UnitNumber, &patent, &v.Comment, &v.EntryTime,
	)
	if err != nil {
		return nil, err
	}
	if patent.Valid {
		v.Patent = &patent.String
	}
	return &v, nil
}

// ListByCondominium returns visits with open ones (no exit yet) first.
func (r VisitRepository) ListByCondominium(ctx context.Context, condominiumID int64, limit int) ([]domain.Visit, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, condominium_id, visitor_name, visitor_rut, unit_number, patent, comment, entry_time, exit_time
		FROM visits
		WHERE condominium_id=$1
		ORDER BY exit_time ASC NULLS FIRST, entry_time DESC
		LIMIT $2
	`, condominiumID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Visit
	for rows.Next() {
		var v domain.Visit
		var patent pgtype.Text
		var exit pgtype.Timestamptz
		if err := rows.Scan(&v.ID, &v.CondominiumID, &v.VisitorName, &v.VisitorRUT, &v.UnitNumber, &patent, &v.Comment, &v.EntryTime, &exit); err != nil {
			return nil, err
		}
		if patent.Valid {
			v.Patent = &patent.String
		}
		if exit.Valid {
			t := exit.Time
			v.ExitTime = &t
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

type UpdateVisitInput struct {
	VisitorName *string
	VisitorRUT  *string
	UnitNumber  *string
	Patent      *string
	SetPatent   bool
	Comment     *string
}

func (r VisitRepository) Update(ctx context.Context, id int64, in UpdateVisitInput) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE visits SET
			visitor_name = COALESCE($2, visitor_name),
			visitor_rut = COALESCE($3, visitor_rut),
			unit_number = COALESCE($4, unit_number),
			patent = CASE WHEN $5 THEN $6 ELSE patent END,
			comment = COALESCE($7, comment)
		WHERE id=$1
	`, id, in.VisitorName, in.VisitorRUT, in.UnitNumber, in.SetPatent, in.Patent, in.Comment)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r VisitRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.DB.Pool.Exec(ctx, `DELETE FROM visits WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkExit stamps the checkout time once; a second call conflicts.
func (r VisitRepository) MarkExit(ctx context.Context, id int64) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE visits SET exit_time = now() WHERE id=$1 AND exit_time IS NULL
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.DB.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM visits WHERE id=$1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrVisitClosed
	}
	return nil
}
