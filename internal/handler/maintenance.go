package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"condoadmin-backend/internal/domain"
	"condoadmin-backend/internal/repository"
	"condoadmin-backend/internal/server/authctx"
	"condoadmin-backend/internal/service"
	"github.com/go-chi/chi/v5"
)

// MaintenanceStore is the slice of the maintenance repository the
// handler needs.
type MaintenanceStore interface {
	Create(ctx context.Context, in repository.CreateMaintenanceInput) (int64, error)
	ListByCondominium(ctx context.Context, condominiumID int64) ([]domain.Maintenance, error)
	Update(ctx context.Context, id int64, in repository.UpdateMaintenanceInput) error
	Delete(ctx context.Context, id int64) error
}

// MaintenancePayer executes the pay transition.
type MaintenancePayer interface {
	Pay(ctx context.Context, maintenanceID int64, in service.PayInput) (*service.PayResult, error)
}

type MaintenanceHandler struct {
	Repo  MaintenanceStore
	Payer MaintenancePayer
}

func (h MaintenanceHandler) RegisterRoutes(r chi.Router) {
	r.Post("/maintenance", h.create)
	r.Get("/maintenance", h.list)
	r.Post("/maintenance/{id}/pay", h.pay)
	r.Put("/maintenance/{id}", h.update)
	r.Delete("/maintenance/{id}", h.delete)
}

func (h MaintenanceHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title         string        `json:"title"`
		Description   string        `json:"description"`
		CondominiumID int64         `json:"condominium_id"`
		ProviderID    int64         `json:"provider_id"`
		ScheduledDate string        `json:"scheduled_date"`
		EstimatedCost domain.Amount `json:"estimated_cost"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.CondominiumID == 0 || req.ProviderID == 0 {
		writeError(w, http.StatusBadRequest, "condominium_id and provider_id are required")
		return
	}
	scheduled, err := time.Parse(dateLayout, req.ScheduledDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid scheduled_date (use YYYY-MM-DD)")
		return
	}

	id, err := h.Repo.Create(r.Context(), repository.CreateMaintenanceInput{
		CondominiumID: req.CondominiumID,
		ProviderID:    req.ProviderID,
		Title:         req.Title,
		Description:   req.Description,
		ScheduledDate: scheduled,
		EstimatedCost: req.EstimatedCost,
	})
	if err != nil {
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to create maintenance", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"msg": "maintenance created", "id": id})
}

func (h MaintenanceHandler) list(w http.ResponseWriter, r *http.Request) {
	condoID, err := condominiumIDQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "condominio_id is required")
		return
	}
	items, err := h.Repo.ListByCondominium(r.Context(), condoID)
	if err != nil {
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to list maintenances", err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, m := range items {
		resp = append(resp, serializeMaintenance(m))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h MaintenanceHandler) pay(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req struct {
		ActualCost *domain.Amount `json:"actual_cost"`
		CategoryID *int64         `json:"category_id"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid payload")
			return
		}
	}

	// The audit actor comes from the verified token, never the body.
	res, err := h.Payer.Pay(r.Context(), id, service.PayInput{
		ActualCost: req.ActualCost,
		CategoryID: req.CategoryID,
		ActorID:    user.ID,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "maintenance not found")
		case errors.Is(err, repository.ErrAlreadyPaid):
			writeError(w, http.StatusBadRequest, "maintenance already paid")
		default:
			writeErrorWithErr(w, http.StatusInternalServerError, "failed to process payment", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"msg":        "maintenance paid and expense generated",
		"expense_id": res.ExpenseID,
	})
}

func (h MaintenanceHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		Title         *string        `json:"title"`
		Description   *string        `json:"description"`
		ScheduledDate *string        `json:"scheduled_date"`
		EstimatedCost *domain.Amount `json:"estimated_cost"`
		ProviderID    *int64         `json:"provider_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	var scheduled *time.Time
	if req.ScheduledDate != nil {
		t, err := time.Parse(dateLayout, *req.ScheduledDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid scheduled_date (use YYYY-MM-DD)")
			return
		}
		scheduled = &t
	}

	err = h.Repo.Update(r.Context(), id, repository.UpdateMaintenanceInput{
		Title:         req.Title,
		Description:   req.Description,
		ScheduledDate: scheduled,
		EstimatedCost: req.EstimatedCost,
		ProviderID:    req.ProviderID,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "maintenance not found")
		case errors.Is(err, repository.ErrAlreadyPaid):
			writeError(w, http.StatusBadRequest, "cannot edit a maintenance already paid")
		default:
			writeErrorWithErr(w, http.StatusInternalServerError, "failed to update maintenance", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "maintenance updated"})
}

func (h MaintenanceHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Repo.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "maintenance not found")
		case errors.Is(err, repository.ErrHasExpense):
			writeError(w, http.StatusBadRequest, "maintenance has an associated expense, void it first")
		default:
			writeErrorWithErr(w, http.StatusInternalServerError, "failed to delete maintenance", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "maintenance deleted"})
}

func serializeMaintenance(m domain.Maintenance) map[string]any {
	out := map[string]any{
		"id":             m.ID,
		"title":          m.Title,
		"description":    m.Description,
		"condominium_id": m.CondominiumID,
		"provider_id":    m.ProviderID,
		"scheduled_date": m.ScheduledDate.Format(dateLayout),
		"estimated_cost": m.EstimatedCost,
		"status_id":      int32(m.StatusID),
	}
	if m.CompletedDate != nil {
		out["completed_date"] = m.CompletedDate.Format(time.RFC3339)
	} else {
		out["completed_date"] = nil
	}
	if m.ActualCost != nil {
		out["actual_cost"] = *m.ActualCost
	} else {
		out["actual_cost"] = nil
	}
	return out
}

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// condominiumIDQuery reads the tenant id, accepting both the legacy
// condominio_id key and condominium_id.
func condominiumIDQuery(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("condominio_id")
	if raw == "" {
		raw = r.URL.Query().Get("condominium_id")
	}
	return strconv.ParseInt(raw, 10, 64)
}
