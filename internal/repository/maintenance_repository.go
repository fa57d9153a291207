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

// Maintenance state conflicts.
var (
	ErrAlreadyPaid = errors.New("maintenance already paid")
	ErrHasExpense  = errors.New("maintenance has an associated expense")
)

type MaintenanceRepository struct {
	DB *db.Postgres
}

type CreateMaintenanceInput struct {
	CondominiumID int64
	ProviderID    int64
	Title         string
	Description   string
	ScheduledDate time.Time
	EstimatedCost domain.Amount
}

func (r MaintenanceRepository) Create(ctx context.Context, in CreateMaintenanceInput) (int64, error) {
	var id int64
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO maintenances (condominium_id, provider_id, title, description, scheduled_date, estimated_cost, maintenance_status_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7, now(), now())
		RETURNING id
	`, in.CondominiumID, in.ProviderID, in.Title, in.Description, in.ScheduledDate, int64(in.EstimatedCost), int32(domain.StatusPending)).Scan(&id)
	return id, err
}

func (r MaintenanceRepository) ListByCondominium(ctx context.Context, condominiumID int64) ([]domain.Maintenance, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, condominium_id, provider_id, title, description, scheduled_date, completed_date,
		       estimated_cost, actual_cost, maintenance_status_id, created_at, updated_at
		FROM maintenances
		WHERE condominium_id=$1
		ORDER BY scheduled_date DESC, id DESC
	`, condominiumID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Maintenance
	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (r MaintenanceRepository) Get(ctx context.Context, id int64) (*domain.Maintenance, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT id, condominium_id, provider_id, title, description, scheduled_date, completed_date,
		       estimated_cost, actual_cost, maintenance_status_id, created_at, updated_at
		FROM maintenances
		WHERE id=$1
	`, id)
	m, err := scanMaintenance(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

type UpdateMaintenanceInput struct {
	Title         *string
	Description   *string
	ScheduledDate *time.Time
	EstimatedCost *domain.Amount
	ProviderID    *int64
}

// Update applies a partial edit. Orders already paid are immutable.
func (r MaintenanceRepository) Update(ctx context.Context, id int64, in UpdateMaintenanceInput) error {
	var estimated *int64
	if in.EstimatedCost != nil {
		v := int64(*in.EstimatedCost)
		estimated = &v
	}
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE maintenances SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			scheduled_date = COALESCE($4, scheduled_date),
			estimated_cost = COALESCE($5, estimated_cost),
			provider_id = COALESCE($6, provider_id),
			updated_at = now()
		WHERE id=$1 AND maintenance_status_id <> $7
	`, id, in.Title, in.Description, in.ScheduledDate, estimated, in.ProviderID, int32(domain.StatusPaid))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing row from a paid one.
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
		return ErrAlreadyPaid
	}
	return nil
}

// Delete removes an order unless an expense references it. The guard
// lives inside the DELETE itself, and a foreign key violation from a
// pay committing concurrently maps to the same conflict.
func (r MaintenanceRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		DELETE FROM maintenances
		WHERE id=$1 AND NOT EXISTS(SELECT 1 FROM expenses WHERE maintenance_id=$1)
	`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return ErrHasExpense
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
		return ErrHasExpense
	}
	return nil
}

// MarkPaidWithTx flips a pending order to paid inside an existing
// transaction. The WHERE clause doubles as a compare-and-swap: a second
// concurrent pay sees zero affected rows instead of double-charging.
func (r MaintenanceRepository) MarkPaidWithTx(ctx context.Context, tx pgx.Tx, id int64, actualCost *domain.Amount) (*domain.Maintenance, error) {
	var actual *int64
	if actualCost != nil {
		v := int64(*actualCost)
		actual = &v
	}
	row := tx.QueryRow(ctx, `
		UPDATE maintenances SET
			maintenance_status_id = $2,
			actual_cost = COALESCE($3, estimated_cost),
			completed_date = now(),
			updated_at = now()
		WHERE id=$1 AND maintenance_status_id <> $2
		RETURNING id, condominium_id, provider_id, title, description, scheduled_date, completed_date,
		          estimated_cost, actual_cost, maintenance_status_id, created_at, updated_at
	`, id, int32(domain.StatusPaid), actual)
	m, err := scanMaintenance(row)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM maintenances WHERE id=$1)`, id).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}
	return nil, ErrAlreadyPaid
}

func scanMaintenance(row pgx.Row) (*domain.Maintenance, error) {
	var m domain.Maintenance
	var statusID int32
	var estimated int64
	var actual pgtype.Int8
	var completed pgtype.Timestamptz
	if err := row.Scan(
		&m.ID, &m.CondominiumID, &m.ProviderID, &m.Title, &m.Description, &m.ScheduledDate, &completed,
		&estimated, &actual, &statusID, &m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	m.StatusID = domain.ExpenseStatusID(statusID)
	m.EstimatedCost = domain.Amount(estimated)
	if actual.Valid {
		a := domain.Amount(actual.Int64)
		m.ActualCost = &a
	}
	if completed.Valid {
		t := completed.Time
		m.CompletedDate = &t
	}
	return &m, nil
}
