package repository

import (
	"context"
	"time"

	"condoadmin-backend/internal/db"
	"condoadmin-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type ExpenseRepository struct {
	DB *db.Postgres
}

type CreateExpenseInput struct {
	CondominiumID  int64
	ProviderID     int64
	CategoryID     int64
	MaintenanceID  *int64
	Amount         domain.Amount
	ExpenseDate    time.Time
	Observation    string
	DocumentNumber string
	StatusID       domain.ExpenseStatusID
}

func (r ExpenseRepository) Create(ctx context.Context, in CreateExpenseInput) (*domain.Expense, error) {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	id, err := r.InsertWithTx(ctx, tx, in)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	e := domain.Expense{
		ID:             id,
		CondominiumID:  in.CondominiumID,
		ProviderID:     in.ProviderID,
		CategoryID:     in.CategoryID,
		MaintenanceID:  in.MaintenanceID,
		Amount:         in.Amount,
		ExpenseDate:    in.ExpenseDate,
		Observation:    in.Observation,
		DocumentNumber: in.DocumentNumber,
		StatusID:       in.StatusID,
	}
	return &e, nil
}

// InsertWithTx writes an expense inside an existing transaction, so the
// maintenance pay flow commits its three rows as one unit.
func (r ExpenseRepository) InsertWithTx(ctx context.Context, tx pgx.Tx, in CreateExpenseInput) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO expenses (condominium_id, provider_id, category_id, maintenance_id, amount, expense_date, observation, document_number, expense_status_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9, now())
		RETURNING id
	`, in.CondominiumID, in.ProviderID, in.CategoryID, in.MaintenanceID, int64(in.Amount), in.ExpenseDate, in.Observation, in.DocumentNumber, int32(in.StatusID)).Scan(&id)
	return id, err
}

// ExpenseFilter narrows List; nil fields mean no bound.
type ExpenseFilter struct {
	From *time.Time
	To   *time.Time
}

func (r ExpenseRepository) List(ctx context.Context, f ExpenseFilter, limit int) ([]domain.Expense, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, condominium_id, provider_id, category_id, maintenance_id, amount, expense_date,
		       observation, document_number, expense_status_id, created_at
		FROM expenses
		WHERE ($1::date IS NULL OR expense_date >= $1)
		  AND ($2::date IS NULL OR expense_date <= $2)
		ORDER BY created_at DESC
		LIMIT $3
	`, f.From, f.To, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Expense
	for rows.Next() {
		var e domain.Expense
		var amount int64
		var statusID int32
		var maintenanceID pgtype.Int8
		if err := rows.Scan(
			&e.ID, &e.CondominiumID, &e.ProviderID, &e.CategoryID, &maintenanceID, &amount, &e.ExpenseDate,
			&e.Observation, &e.DocumentNumber, &statusID, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		e.Amount = domain.Amount(amount)
		e.StatusID = domain.ExpenseStatusID(statusID)
		if maintenanceID.Valid {
			e.MaintenanceID = &maintenanceID.Int64
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r ExpenseRepository) ListCategories(ctx context.Context) ([]domain.ExpenseCategory, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, name, description, is_active FROM expense_categories ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ExpenseCategory
	for rows.Next() {
		var c domain.ExpenseCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.IsActive); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r ExpenseRepository) ListStatuses(ctx context.Context) ([]domain.ExpenseStatus, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, name, description, is_active FROM expense_statuses ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ExpenseStatus
	for rows.Next() {
		var s domain.ExpenseStatus
		var id int64
		if err := rows.Scan(&id, &s.Name, &s.Description, &s.IsActive); err != nil {
			return nil, err
		}
		s.ID = domain.ExpenseStatusID(id)
		out = append(out, s)
	}
	return out, rows.Err()
}
