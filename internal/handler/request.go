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
	"github.com/go-chi/chi/v5"
)

// RequestStore is the slice of the request repository the handler needs.
type RequestStore interface {
	Create(ctx context.Context, in repository.CreateRequestInput) (*domain.Request, error)
	CheckAvailability(ctx context.Context, condominiumID, commonAreaID int64, date time.Time) (bool, error)
	ListByCondominium(ctx context.Context, condominiumID int64) ([]domain.Request, error)
	Update(ctx context.Context, id int64, in repository.UpdateRequestInput) error
	Delete(ctx context.Context, id int64) error
}

type RequestHandler struct {
	Repo RequestStore
}

func (h RequestHandler) RegisterRoutes(r chi.Router) {
	r.Post("/requests", h.create)
	r.Get("/requests", h.list)
	r.Get("/requests/check", h.check)
	r.Put("/requests/{id}", h.update)
	r.Delete("/requests/{id}", h.delete)
}

func (h RequestHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CondominiumID int64  `json:"condominium_id"`
		ResidentName  string `json:"resident_name"`
		UnitNumber    string `json:"unit_number"`
		RequestType   string `json:"request_type"`
		CommonAreaID  *int64 `json:"common_area_id"`
		Subject       string `json:"subject"`
		Description   string `json:"description"`
		RequestDate   string `json:"request_date"`
		// Creation never honors a caller-supplied status.
		StatusID *int32 `json:"status_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.CondominiumID == 0 {
		writeError(w, http.StatusBadRequest, "condominium_id is required")
		return
	}
	date, err := time.Parse(dateLayout, req.RequestDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request_date (use YYYY-MM-DD)")
		return
	}
	reqType := domain.RequestType(req.RequestType)
	if reqType == domain.RequestReservation && req.CommonAreaID == nil {
		writeError(w, http.StatusBadRequest, "common_area_id is required for a reservation")
		return
	}

	created, err := h.Repo.Create(r.Context(), repository.CreateRequestInput{
		CondominiumID: req.CondominiumID,
		CommonAreaID:  req.CommonAreaID,
		ResidentName:  req.ResidentName,
		UnitNumber:    req.UnitNumber,
		Type:          reqType,
		Subject:       req.Subject,
		Description:   req.Description,
		RequestDate:   date,
	})
	if err != nil {
		if errors.Is(err, repository.ErrSlotReserved) {
			writeError(w, http.StatusConflict, "slot already reserved for this date")
			return
		}
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to create request", err)
		return
	}
	writeJSON(w, http.StatusCreated, serializeRequest(*created))
}

func (h RequestHandler) list(w http.ResponseWriter, r *http.Request) {
	condoID, err := condominiumIDQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "condominio_id is required")
		return
	}
	items, err := h.Repo.ListByCondominium(r.Context(), condoID)
	if err != nil {
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to list requests", err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, item := range items {
		resp = append(resp, serializeRequest(item))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h RequestHandler) check(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse(dateLayout, r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date (use YYYY-MM-DD)")
		return
	}
	areaID, err := strconv.ParseInt(r.URL.Query().Get("area_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "area_id is required")
		return
	}
	condoID, err := condominiumIDQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "condominio_id is required")
		return
	}

	available, err := h.Repo.CheckAvailability(r.Context(), condoID, areaID, date)
	if err != nil {
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to check availability", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"available": available})
}

func (h RequestHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		StatusID    *int32  `json:"status_id"`
		Subject     *string `json:"subject"`
		Description *string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	var status *domain.RequestStatus
	if req.StatusID != nil {
		s := domain.RequestStatus(*req.StatusID)
		if s != domain.RequestPending && s != domain.RequestApproved && s != domain.RequestRejected {
			writeError(w, http.StatusBadRequest, "invalid status_id")
			return
		}
		status = &s
	}

	err = h.Repo.Update(r.Context(), id, repository.UpdateRequestInput{
		StatusID:    status,
		Subject:     req.Subject,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "request not found")
		case errors.Is(err, repository.ErrSlotReserved):
			writeError(w, http.StatusConflict, "slot already reserved for this date")
		default:
			writeErrorWithErr(w, http.StatusInternalServerError, "failed to update request", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "request updated"})
}

func (h RequestHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "request not found")
			return
		}
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to delete request", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "request deleted"})
}

func serializeRequest(req domain.Request) map[string]any {
	return map[string]any{
		"id":             req.ID,
		"condominium_id": req.CondominiumID,
		"common_area_id": req.CommonAreaID,
		"resident_name":  req.ResidentName,
		"unit_number":    req.UnitNumber,
		"request_type":   string(req.Type),
		"subject":        req.Subject,
		"description":    req.Description,
		"request_date":   req.RequestDate.Format(dateLayout),
		"status_id":      int32(req.StatusID),
		"created_at":     req.CreatedAt.Format(time.RFC3339),
	}
}
