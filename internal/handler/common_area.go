package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"condoadmin-backend/internal/domain"
	"condoadmin-backend/internal/repository"
	"github.com/go-chi/chi/v5"
)

type CommonAreaHandler struct {
	Repo repository.CommonAreaRepository
}

// RegisterRoutes mounts the read side; residents browse areas when
// reserving. Writes are mounted separately for administrators.
func (h CommonAreaHandler) RegisterRoutes(r chi.Router) {
	r.Get("/common-areas", h.list)
}

func (h CommonAreaHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/common-areas", h.create)
	r.Put("/common-areas/{id}", h.update)
	r.Delete("/common-areas/{id}", h.delete)
}

func (h CommonAreaHandler) list(w http.ResponseWriter, r *http.Request) {
	condoID, err := condominiumIDQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "condominio_id is required")
		return
	}
	items, err := h.Repo.ListByCondominium(r.Context(), condoID)
	if err != nil {
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to list common areas", err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, a := range items {
		resp = append(resp, serializeCommonArea(a))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h CommonAreaHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CondominiumID int64         `json:"condominium_id"`
		CondominioID  int64         `json:"condominio_id"`
		Name          string        `json:"name"`
		Description   string        `json:"description"`
		Price         domain.Amount `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	condoID := req.CondominiumID
	if condoID == 0 {
		condoID = req.CondominioID
	}
	if condoID == 0 {
		writeError(w, http.StatusBadRequest, "condominium_id is required")
		return
	}

	area, err := h.Repo.Create(r.Context(), repository.CreateCommonAreaInput{
		CondominiumID: condoID,
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
	})
	if err != nil {
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to create common area", err)
		return
	}
	writeJSON(w, http.StatusCreated, serializeCommonArea(*area))
}

func (h CommonAreaHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		Name        *string        `json:"name"`
		Description *string        `json:"description"`
		Price       *domain.Amount `json:"price"`
		IsActive    *bool          `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	err = h.Repo.Update(r.Context(), id, repository.UpdateCommonAreaInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		IsActive:    req.IsActive,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "common area not found")
			return
		}
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to update common area", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "common area updated"})
}

func (h CommonAreaHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "common area not found")
			return
		}
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to delete common area", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "common area deleted"})
}

func serializeCommonArea(a domain.CommonArea) map[string]any {
	return map[string]any{
		"id":             a.ID,
		"condominium_id": a.CondominiumID,
		"name":           a.Name,
		"description":    a.Description,
		"price":          a.Price,
		"is_active":      a.IsActive,
		"created_at":     a.CreatedAt.Format(time.RFC3339),
	}
}
