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
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRequestStore struct {
	created   *domain.Request
	createErr error
	available bool
	updateErr error
	lastInput repository.CreateRequestInput
}

func (f *fakeRequestStore) Create(ctx context.Context, in repository.CreateRequestInput) (*domain.Request, error) {
	f.lastInput = in
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.created != nil {
		return f.created, nil
	}
	return &domain.Request{
		ID:            1,
		CondominiumID: in.CondominiumID,
		CommonAreaID:  in.CommonAreaID,
		ResidentName:  in.ResidentName,
		UnitNumber:    in.UnitNumber,
		Type:          in.Type,
		Subject:       in.Subject,
		Description:   in.Description,
		RequestDate:   in.RequestDate,
		StatusID:      domain.RequestPending,
		CreatedAt:     time.Now(),
	}, nil
}

func (f *fakeRequestStore) CheckAvailability(ctx context.Context, condominiumID, commonAreaID int64, date time.Time) (bool, error) {
	return f.available, nil
}

func (f *fakeRequestStore) ListByCondominium(ctx context.Context, condominiumID int64) ([]domain.Request, error) {
	return nil, nil
}

func (f *fakeRequestStore) Update(ctx context.Context, id int64, in repository.UpdateRequestInput) error {
	return f.updateErr
}

func (f *fakeRequestStore) Delete(ctx context.Context, id int64) error {
	return nil
}

func newRequestRouter(store *fakeRequestStore) http.Handler {
	r := chi.NewRouter()
	RequestHandler{Repo: store}.RegisterRoutes(r)
	return r
}

func TestRequestCreateReservation(t *testing.T) {
	store := &fakeRequestStore{}
	router := newRequestRouter(store)

	body := `{"condominium_id":1,"common_area_id":2,"resident_name":"Ana","unit_number":"101","request_type":"Reserva","subject":"Quincho","request_date":"2026-09-15"}`
	req := httptest.NewRequest(http.MethodPost, "/requests", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(domain.RequestPending), resp["status_id"])
	assert.Equal(t, "Reserva", resp["request_type"])
}

func TestRequestCreateReservationConflict(t *testing.T) {
	store := &fakeRequestStore{createErr: repository.ErrSlotReserved}
	router := newRequestRouter(store)

	body := `{"condominium_id":1,"common_area_id":2,"request_type":"Reserva","request_date":"2026-09-15"}`
	req := httptest.NewRequest(http.MethodPost, "/requests", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRequestCreateReservationNeedsArea(t *testing.T) {
	router := newRequestRouter(&fakeRequestStore{})

	body := `{"condominium_id":1,"request_type":"Reserva","request_date":"2026-09-15"}`
	req := httptest.NewRequest(http.MethodPost, "/requests", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestCreateIgnoresCallerStatus(t *testing.T) {
	store := &fakeRequestStore{}
	router := newRequestRouter(store)

	// A complaint sent directly with approved status still lands pending.
	body := `{"condominium_id":1,"request_type":"Reclamo","subject":"Ruido","request_date":"2026-09-15","status_id":2}`
	req := httptest.NewRequest(http.MethodPost, "/requests", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(domain.RequestPending), resp["status_id"])
}

func TestRequestCheckAvailability(t *testing.T) {
	store := &fakeRequestStore{available: true}
	router := newRequestRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/requests/check?date=2026-09-15&area_id=2&condominio_id=1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp["available"])
}

func TestRequestCheckMissingParams(t *testing.T) {
	router := newRequestRouter(&fakeRequestStore{})

	req := httptest.NewRequest(http.MethodGet, "/requests/check?date=2026-09-15", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestUpdateInvalidStatus(t *testing.T) {
	router := newRequestRouter(&fakeRequestStore{})

	req := httptest.NewRequest(http.MethodPut, "/requests/1", bytes.NewBufferString(`{"status_id":9}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestApproveConflict(t *testing.T) {
	store := &fakeRequestStore{updateErr: repository.ErrSlotReserved}
	router := newRequestRouter(store)

	req := httptest.NewRequest(http.MethodPut, "/requests/1", bytes.NewBufferString(`{"status_id":2}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}
