package service

import (
	"context"
	"fmt"
	"time"

	"condoadmin-backend/internal/domain"
	"condoadmin-backend/internal/repository"
	"github.com/jackc/pgx/v5"
)

// Default category for auto-generated maintenance expenses.
const defaultExpenseCategoryID = 1

// TxBeginner opens a transaction; satisfied by pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// MaintenancePayStore is the slice of the maintenance repository the
// pay flow needs.
type MaintenancePayStore interface {
	MarkPaidWithTx(ctx context.Context, tx pgx.Tx, id int64, actualCost *domain.Amount) (*domain.Maintenance, error)
}

// ExpensePoster writes an expense inside the caller's transaction.
type ExpensePoster interface {
	InsertWithTx(ctx context.Context, tx pgx.Tx, in repository.CreateExpenseInput) (int64, error)
}

// AuditAppender appends an audit entry inside the caller's transaction.
type AuditAppender interface {
	InsertWithTx(ctx context.Context, tx pgx.Tx, in repository.CreateAuditLogInput) (int64, error)
}

// MaintenanceService owns the maintenance pay lifecycle: flipping the
// order to paid, posting the expense and appending the audit entry are
// one transaction, so a failure anywhere leaves no partial state.
type MaintenanceService struct {
	DB           TxBeginner
	Maintenances MaintenancePayStore
	Expenses     ExpensePoster
	Audits       AuditAppender
}

type PayInput struct {
	ActualCost *domain.Amount
	CategoryID *int64
	ActorID    int64
}

type PayResult struct {
	ExpenseID  int64
	ActualCost domain.Amount
}

func (s MaintenanceService) Pay(ctx context.Context, maintenanceID int64, in PayInput) (*PayResult, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	m, err := s.Maintenances.MarkPaidWithTx(ctx, tx, maintenanceID, in.ActualCost)
	if err != nil {
		return nil, err
	}

	categoryID := int64(defaultExpenseCategoryID)
	if in.CategoryID != nil {
		categoryID = *in.CategoryID
	}
	amount := m.EstimatedCost
	if m.ActualCost != nil {
		amount = *m.ActualCost
	}

	expenseID, err := s.Expenses.InsertWithTx(ctx, tx, repository.CreateExpenseInput{
		CondominiumID: m.CondominiumID,
		ProviderID:    m.ProviderID,
		CategoryID:    categoryID,
		MaintenanceID: &m.ID,
		Amount:        amount,
		ExpenseDate:   time.Now(),
		Observation:   fmt.Sprintf("Gasto automático de Mantención: %s", m.Title),
		StatusID:      domain.StatusPaid,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.Audits.InsertWithTx(ctx, tx, repository.CreateAuditLogInput{
		UserID:   in.ActorID,
		Action:   domain.ActionPayMaintenance,
		Entity:   "Maintenance",
		EntityID: m.ID,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &PayResult{ExpenseID: expenseID, ActualCost: amount}, nil
}
