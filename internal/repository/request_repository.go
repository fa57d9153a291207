package repository

import (
	"context"
	"errors"
	"time"

	"condoadmin-backend/internal/db"
	"condoadmin-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// ErrSlotReserved is returned when a reservation collides with an
// approved booking for the same area and date.
var ErrSlotReserved = errors.New("slot already reserved for this date")

type RequestRepository struct {
	DB *db.Postgres
}

type CreateRequestInput struct {
	CondominiumID int64
	CommonAreaID  *int64
	ResidentName  string
	UnitNumber    string
	Type          domain.RequestType
	Subject       string
	Description   string
	RequestDate   time.Time
}

// Create inserts a request, always starting at Pending. Reservations are
// checked against approved bookings for the same slot first; check and
// insert share one transaction.
func (r RequestRepository) Create(ctx context.Context, in CreateRequestInput) (*domain.Request, error) {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if in.Type == domain.RequestReservation {
		available, err := r.checkAvailability(ctx, tx, in.CondominiumID, in.CommonAreaID, in.RequestDate)
		if err != nil {
			return nil, err
		}
		if !available {
			return nil, ErrSlotReserved
		}
	}

	var req domain.Request
	var areaID pgtype.Int8
	var reqType string
	var statusID int32
	err = tx.QueryRow(ctx, `
		INSERT INTO requests (condominium_id, common_area_id, resident_name, unit_number, request_type, subject, description, request_date, status_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9, now())
		RETURNING id, condominium_id, common_area_id, resident_name, unit_number, request_type, subject, description, request_date, status_id, created_at
	`, in.CondominiumID, in.CommonAreaID, in.ResidentName, in.UnitNumber, string(in.Type), in.Subject, in.Description, in.RequestDate, int32(domain.RequestPending)).Scan(
		&req.ID, &req.CondominiumID, &areaID, &req.ResidentName, &req.UnitNumber, &reqType, &req.Subject, &req.Description, &req.RequestDate, &statusID, &req.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if areaID.Valid {
		req.CommonAreaID = &areaID.Int64
	}
	req.Type = domain.RequestType(reqType)
	req.StatusID = domain.RequestStatus(statusID)
	return &req, nil
}

// CheckAvailability reports whether a common area is free on a date:
// free unless an approved reservation already holds the slot.
func (r RequestRepository) CheckAvailability(ctx context.Context, condominiumID int64, commonAreaID int64, date time.Time) (bool, error) {
	return r.checkAvailability(ctx, r.DB.Pool, condominiumID, &commonAreaID, date)
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r RequestRepository) checkAvailability(ctx context.Context, q querier, condominiumID int64, commonAreaID *int64, date time.Time) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM requests
			WHERE condominium_id=$1 AND common_area_id=$2 AND request_date=$3
			  AND request_type=$4 AND status_id=$5
		)
	`, condominiumID, commonAreaID, date, string(domain.RequestReservation), int32(domain.RequestApproved)).Scan(&exists)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

func (r RequestRepository) ListByCondominium(ctx context.Context, condominiumID int64) ([]domain.Request, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, condominium_id, common_area_id, resident_name, unit_number, request_type, subject, description, request_date, status_id, created_at
		FROM requests
		WHERE condominium_id=$1
		ORDER BY created_at DESC
	`, condominiumID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Request
	for rows.Next() {
		var req domain.Request
		var areaID pgtype.Int8
		var reqType string
		var statusID int32
		if err := rows.Scan(
			&req.ID, &req.CondominiumID, &areaID, &req.ResidentName, &req.UnitNumber, &reqType, &req.Subject, &req.Description, &req.RequestDate, &statusID, &req.CreatedAt,
		); err != nil {
			return nil, err
		}
		if areaID.Valid {
			req.CommonAreaID = &areaID.Int64
		}
		req.Type = domain.RequestType(reqType)
		req.StatusID = domain.RequestStatus(statusID)
		out = append(out, req)
	}
	return out, rows.Err()
}

type UpdateRequestInput struct {
	StatusID    *domain.RequestStatus
	Subject     *string
	Description *string
}

// Update changes the status (approve/reject) or edits the text fields.
// The partial unique index on approved reservations turns a double
// approval of the same slot into ErrSlotReserved.
func (r RequestRepository) Update(ctx context.Context, id int64, in UpdateRequestInput) error {
	var statusID *int32
	if in.StatusID != nil {
		v := int32(*in.StatusID)
		statusID = &v
	}
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE requests SET
			status_id = COALESCE($2, status_id),
			subject = COALESCE($3, subject),
			description = COALESCE($4, description)
		WHERE id=$1
	`, id, statusID, in.Subject, in.Description)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrSlotReserved
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r RequestRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.DB.Pool.Exec(ctx, `DELETE FROM requests WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
