package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"condoadmin-backend/internal/domain"
	"condoadmin-backend/internal/repository"
	"condoadmin-backend/internal/server/authctx"
	"condoadmin-backend/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMaintenanceStore struct {
	createdID int64
	createErr error
	updateErr error
	deleteErr error
	items     []domain.Maintenance
	lastInput repository.CreateMaintenanceInput
}

func (f *fakeMaintenanceStore) Create(ctx context.Context, in repository.CreateMaintenanceInput) (int64, error) {
	f.lastInput = in
	return f.createdID, f.createErr
}

func (f *fakeMaintenanceStore) ListByCondominium(ctx context.Context, condominiumID int64) ([]domain.Maintenance, error) {
	return f.items, nil
}

func (f *fakeMaintenanceStore) Update(ctx context.Context, id int64, in repository.UpdateMaintenanceInput) error {
	return f.updateErr
}

func (f *fakeMaintenanceStore) Delete(ctx context.Context, id int64) error {
	return f.deleteErr
}

type fakePayer struct {
	result *service.PayResult
	err    error
	gotID  int64
	gotIn  service.PayInput
	called bool
}

func (f *fakePayer) Pay(ctx context.Context, maintenanceID int64, in service.PayInput) (*service.PayResult, error) {
	f.called = true
	f.gotID = maintenanceID
	f.gotIn = in
	return f.result, f.err
}

func newMaintenanceRouter(store *fakeMaintenanceStore, payer *fakePayer) http.Handler {
	r := chi.NewRouter()
	MaintenanceHandler{Repo: store, Payer: payer}.RegisterRoutes(r)
	return r
}

func asUser(req *http.Request, id int64) *http.Request {
	ctx := authctx.WithCurrentUser(req.Context(), authctx.CurrentUser{
		ID:    id,
		Email: "admin@example.com",
		Roles: []domain.UserRole{domain.RoleAdmin},
	})
	return req.WithContext(ctx)
}

func TestMaintenanceCreate(t *testing.T) {
	store := &fakeMaintenanceStore{createdID: 42}
	router := newMaintenanceRouter(store, &fakePayer{})

	body := `{"title":"Ascensor","condominium_id":1,"provider_id":2,"scheduled_date":"2026-09-01","estimated_cost":150.5}`
	req := httptest.NewRequest(http.MethodPost, "/maintenance", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(42), resp["id"])
	assert.Equal(t, domain.Amount(15050), store.lastInput.EstimatedCost)
}

func TestMaintenanceCreateMissingFields(t *testing.T) {
	router := newMaintenanceRouter(&fakeMaintenanceStore{}, &fakePayer{})

	req := httptest.NewRequest(http.MethodPost, "/maintenance", bytes.NewBufferString(`{"title":"x"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMaintenanceListRequiresCondominium(t *testing.T) {
	router := newMaintenanceRouter(&fakeMaintenanceStore{}, &fakePayer{})

	req := httptest.NewRequest(http.MethodGet, "/maintenance", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMaintenanceListLegacyTenantKey(t *testing.T) {
	scheduled := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	store := &fakeMaintenanceStore{items: []domain.Maintenance{{
		ID:            7,
		CondominiumID: 3,
		ProviderID:    1,
		Title:         "Poda",
		ScheduledDate: scheduled,
		EstimatedCost: domain.Amount(10000),
		StatusID:      domain.StatusPending,
	}}}
	router := newMaintenanceRouter(store, &fakePayer{})

	req := httptest.NewRequest(http.MethodGet, "/maintenance?condominio_id=3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "2026-09-01", resp[0]["scheduled_date"])
	assert.Equal(t, float64(100), resp[0]["estimated_cost"])
	assert.Nil(t, resp[0]["completed_date"])
}

func TestMaintenancePay(t *testing.T) {
	payer := &fakePayer{result: &service.PayResult{ExpenseID: 99, ActualCost: domain.Amount(20000)}}
	router := newMaintenanceRouter(&fakeMaintenanceStore{}, payer)

	req := httptest.NewRequest(http.MethodPost, "/maintenance/7/pay", bytes.NewBufferString(`{"actual_cost":"200.00"}`))
	req = asUser(req, 5)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(99), resp["expense_id"])

	assert.Equal(t, int64(7), payer.gotID)
	assert.Equal(t, int64(5), payer.gotIn.ActorID)
	require.NotNil(t, payer.gotIn.ActualCost)
	assert.Equal(t, domain.Amount(20000), *payer.gotIn.ActualCost)
}

func TestMaintenancePayWithoutUser(t *testing.T) {
	payer := &fakePayer{}
	router := newMaintenanceRouter(&fakeMaintenanceStore{}, payer)

	req := httptest.NewRequest(http.MethodPost, "/maintenance/7/pay", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, payer.called)
}

func TestMaintenancePayNotFound(t *testing.T) {
	payer := &fakePayer{err: repository.ErrNotFound}
	router := newMaintenanceRouter(&fakeMaintenanceStore{}, payer)

	req := asUser(httptest.NewRequest(http.MethodPost, "/maintenance/99/pay", nil), 1)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMaintenancePayAlreadyPaid(t *testing.T) {
	payer := &fakePayer{err: repository.ErrAlreadyPaid}
	router := newMaintenanceRouter(&fakeMaintenanceStore{}, payer)

	req := asUser(httptest.NewRequest(http.MethodPost, "/maintenance/7/pay", nil), 1)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMaintenanceUpdatePaidOrder(t *testing.T) {
	store := &fakeMaintenanceStore{updateErr: repository.ErrAlreadyPaid}
	router := newMaintenanceRouter(store, &fakePayer{})

	req := httptest.NewRequest(http.MethodPut, "/maintenance/7", bytes.NewBufferString(`{"title":"new"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMaintenanceDeleteWithExpense(t *testing.T) {
	store := &fakeMaintenanceStore{deleteErr: repository.ErrHasExpense}
	router := newMaintenanceRouter(store, &fakePayer{})

	req := httptest.NewRequest(http.MethodDelete, "/maintenance/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
