package service

import (
	"context"
	"errors"
	"testing"

	"condoadmin-backend/internal/domain"
	"condoadmin-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTx only implements the lifecycle methods the pay flow uses; the
// embedded interface covers the rest of pgx.Tx.
type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeBeginner struct {
	tx *fakeTx
}

func (b *fakeBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	return b.tx, nil
}

type fakePayStore struct {
	order *domain.Maintenance
	err   error
}

func (f *fakePayStore) MarkPaidWithTx(ctx context.Context, tx pgx.Tx, id int64, actualCost *domain.Amount) (*domain.Maintenance, error) {
	if f.err != nil {
		return nil, f.err
	}
	m := *f.order
	m.StatusID = domain.StatusPaid
	if actualCost != nil {
		m.ActualCost = actualCost
	} else {
		cost := m.EstimatedCost
		m.ActualCost = &cost
	}
	return &m, nil
}

type fakeExpensePoster struct {
	id     int64
	err    error
	called bool
	input  repository.CreateExpenseInput
}

func (f *fakeExpensePoster) InsertWithTx(ctx context.Context, tx pgx.Tx, in repository.CreateExpenseInput) (int64, error) {
	f.called = true
	f.input = in
	return f.id, f.err
}

type fakeAuditAppender struct {
	err    error
	called bool
	input  repository.CreateAuditLogInput
}

func (f *fakeAuditAppender) InsertWithTx(ctx context.Context, tx pgx.Tx, in repository.CreateAuditLogInput) (int64, error) {
	f.called = true
	f.input = in
	return 1, f.err
}

func pendingOrder() *domain.Maintenance {
	return &domain.Maintenance{
		ID:            7,
		CondominiumID: 1,
		ProviderID:    2,
		Title:         "Ascensor",
		EstimatedCost: domain.Amount(15000),
		StatusID:      domain.StatusPending,
	}
}

func newPayService(store *fakePayStore, expenses *fakeExpensePoster, audits *fakeAuditAppender) (MaintenanceService, *fakeTx) {
	tx := &fakeTx{}
	return MaintenanceService{
		DB:           &fakeBeginner{tx: tx},
		Maintenances: store,
		Expenses:     expenses,
		Audits:       audits,
	}, tx
}

func TestPayCommitsAllThreeWrites(t *testing.T) {
	expenses := &fakeExpensePoster{id: 99}
	audits := &fakeAuditAppender{}
	svc, tx := newPayService(&fakePayStore{order: pendingOrder()}, expenses, audits)

	actual := domain.Amount(20000)
	res, err := svc.Pay(context.Background(), 7, PayInput{ActualCost: &actual, ActorID: 5})
	require.NoError(t, err)

	assert.Equal(t, int64(99), res.ExpenseID)
	assert.Equal(t, domain.Amount(20000), res.ActualCost)
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)

	require.True(t, expenses.called)
	assert.Equal(t, domain.Amount(20000), expenses.input.Amount)
	assert.Equal(t, int64(defaultExpenseCategoryID), expenses.input.CategoryID)
	assert.Equal(t, domain.StatusPaid, expenses.input.StatusID)
	assert.Equal(t, "Gasto automático de Mantención: Ascensor", expenses.input.Observation)
	require.NotNil(t, expenses.input.MaintenanceID)
	assert.Equal(t, int64(7), *expenses.input.MaintenanceID)

	require.True(t, audits.called)
	assert.Equal(t, int64(5), audits.input.UserID)
	assert.Equal(t, domain.ActionPayMaintenance, audits.input.Action)
	assert.Equal(t, "Maintenance", audits.input.Entity)
	assert.Equal(t, int64(7), audits.input.EntityID)
}

func TestPayDefaultsToEstimatedCost(t *testing.T) {
	expenses := &fakeExpensePoster{id: 1}
	svc, _ := newPayService(&fakePayStore{order: pendingOrder()}, expenses, &fakeAuditAppender{})

	res, err := svc.Pay(context.Background(), 7, PayInput{ActorID: 5})
	require.NoError(t, err)
	assert.Equal(t, domain.Amount(15000), res.ActualCost)
	assert.Equal(t, domain.Amount(15000), expenses.input.Amount)
}

func TestPayExpenseFailureRollsBack(t *testing.T) {
	boom := errors.New("category does not exist")
	expenses := &fakeExpensePoster{err: boom}
	audits := &fakeAuditAppender{}
	svc, tx := newPayService(&fakePayStore{order: pendingOrder()}, expenses, audits)

	_, err := svc.Pay(context.Background(), 7, PayInput{ActorID: 5})
	require.ErrorIs(t, err, boom)

	// The unit aborts before the audit write; nothing commits.
	assert.False(t, audits.called)
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}

func TestPayAuditFailureRollsBack(t *testing.T) {
	boom := errors.New("audit write failed")
	audits := &fakeAuditAppender{err: boom}
	svc, tx := newPayService(&fakePayStore{order: pendingOrder()}, &fakeExpensePoster{id: 1}, audits)

	_, err := svc.Pay(context.Background(), 7, PayInput{ActorID: 5})
	require.ErrorIs(t, err, boom)
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}

func TestPayAlreadyPaidWritesNothing(t *testing.T) {
	expenses := &fakeExpensePoster{}
	audits := &fakeAuditAppender{}
	svc, tx := newPayService(&fakePayStore{err: repository.ErrAlreadyPaid}, expenses, audits)

	_, err := svc.Pay(context.Background(), 7, PayInput{ActorID: 5})
	require.ErrorIs(t, err, repository.ErrAlreadyPaid)
	assert.False(t, expenses.called)
	assert.False(t, audits.called)
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}
