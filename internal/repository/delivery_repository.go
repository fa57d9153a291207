package repository

import (
	"context"

	"condoadmin-backend/internal/db"
	"condoadmin-backend/internal/domain"
	"github.com/jackc/pgx/v5/pgtype"
)

type DeliveryRepository struct {
	DB *db.Postgres
}

type CreateDeliveryInput struct {
	CondominiumID int64
	UnitNumber    string
	RecipientName string
	TrackingCode  string
	Comment       string
}

func (r DeliveryRepository) Create(ctx context.Context, in CreateDeliveryInput) (*domain.Delivery, error) {
	var d domain.Delivery
	var status string
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO deliveries (condominium_id, unit_number, recipient_name, tracking_code, comment, status, arrival_time)
		VALUES ($1,$2,$3,$4,$5,$6, now())
		RETURNING id, condominium_id, unit_number, recipient_name, tracking_code, comment, status, arrival_time
	`, in.CondominiumID, in.UnitNumber, in.RecipientName, in.TrackingCode, in.Comment, string(domain.DeliveryPending)).Scan(
		&d.ID, &d.CondominiumID, &d.UnitNumber, &d.RecipientName, &d.TrackingCode, &d.Comment, &status, &d.ArrivalTime,
	)
	if err != nil {
		return nil, err
	}
	d.Status = domain.DeliveryStatus(status)
	return &d, nil
}

// ListByCondominium returns packages, pending ones first.
func (r DeliveryRepository) ListByCondominium(ctx context.Context, condominiumID int64, limit int) ([]domain.Delivery, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, condominium_id, unit_number, recipient_name, tracking_code, comment, status, arrival_time, pickup_time
		FROM deliveries
		WHERE condominium_id=$1
		ORDER BY (status = 'pending') DESC, arrival_time DESC
		LIMIT $2
	`, condominiumID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Delivery
	for rows.Next() {
		var d domain.Delivery
		var status string
		var pickup pgtype.Timestamptz
		if err := rows.Scan(&d.ID, &d.CondominiumID, &d.UnitNumber, &d.RecipientName, &d.TrackingCode, &d.Comment, &status, &d.ArrivalTime, &pickup); err != nil {
			return nil, err
		}
		d.Status = domain.DeliveryStatus(status)
		if pickup.Valid {
			t := pickup.Time
			d.PickupTime = &t
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

type UpdateDeliveryInput struct {
	UnitNumber    *string
	RecipientName *string
	TrackingCode  *string
	Comment       *string
}

func (r DeliveryRepository) Update(ctx context.Context, id int64, in UpdateDeliveryInput) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE deliveries SET
			unit_number = COALESCE($2, unit_number),
			recipient_name = COALESCE($3, recipient_name),
			tracking_code = COALESCE($4, tracking_code),
			comment = COALESCE($5, comment)
		WHERE id=$1
	`, id, in.UnitNumber, in.RecipientName, in.TrackingCode, in.Comment)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r DeliveryRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.DB.Pool.Exec(ctx, `DELETE FROM deliveries WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkPickup stamps the pickup time and flips the status.
func (r DeliveryRepository) MarkPickup(ctx context.Context, id int64) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE deliveries SET pickup_time = now(), status = $2 WHERE id=$1
	`, id, string(domain.DeliveryPickedUp))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
