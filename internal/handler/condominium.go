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

type CondominiumHandler struct {
	Repo repository.CondominiumRepository
}

func (h CondominiumHandler) RegisterRoutes(r chi.Router) {
	r.Get("/condominiums", h.list)
	r.Post("/condominiums", h.create)
	r.Put("/condominiums/{id}", h.update)
	r.Delete("/condominiums/{id}", h.delete)
}

func (h CondominiumHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.List(r.Context())
	if err != nil {
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to list condominiums", err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, c := range items {
		resp = append(resp, map[string]any{
			"id":                 c.ID,
			"administrator_id":   c.AdministratorID,
			"administrator_name": c.AdministratorName,
			"name":               c.Name,
			"commune":            c.Commune,
			"address":            c.Address,
			"state":              string(c.State),
			"total_units":        c.TotalUnits,
			"contact_email":      c.ContactEmail,
			"contact_phone":      c.ContactPhone,
			"created_at":         c.CreatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h CondominiumHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AdministratorID int64  `json:"administrator_id"`
		Name            string `json:"name"`
		Commune         string `json:"commune"`
		Address         string `json:"address"`
		State           string `json:"state"`
		TotalUnits      int    `json:"total_units"`
		ContactEmail    string `json:"contact_email"`
		ContactPhone    string `json:"contact_phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" || req.Address == "" {
		writeError(w, http.StatusBadRequest, "name and address are required")
		return
	}
	state, ok := parseCondominiumState(req.State)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid state (use Activo, Inactivo or Moroso)")
		return
	}

	c, err := h.Repo.Create(r.Context(), repository.CreateCondominiumInput{
		AdministratorID: req.AdministratorID,
		Name:            req.Name,
		Commune:         req.Commune,
		Address:         req.Address,
		State:           state,
		TotalUnits:      req.TotalUnits,
		ContactEmail:    req.ContactEmail,
		ContactPhone:    req.ContactPhone,
	})
	if err != nil {
		if repository.IsDuplicate(err) {
			writeError(w, http.StatusConflict, "a condominium with that name already exists")
			return
		}
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to create condominium", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"msg": "condominium created", "id": c.ID})
}

func (h CondominiumHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		Name            *string `json:"name"`
		Commune         *string `json:"commune"`
		Address         *string `json:"address"`
		State           *string `json:"state"`
		TotalUnits      *int    `json:"total_units"`
		ContactEmail    *string `json:"contact_email"`
		ContactPhone    *string `json:"contact_phone"`
		AdministratorID *int64  `json:"administrator_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.State != nil {
		if _, ok := parseCondominiumState(*req.State); !ok {
			writeError(w, http.StatusBadRequest, "invalid state (use Activo, Inactivo or Moroso)")
			return
		}
	}

	err = h.Repo.Update(r.Context(), id, repository.UpdateCondominiumInput{
		Name:            req.Name,
		Commune:         req.Commune,
		Address:         req.Address,
		State:           req.State,
		TotalUnits:      req.TotalUnits,
		ContactEmail:    req.ContactEmail,
		ContactPhone:    req.ContactPhone,
		AdministratorID: req.AdministratorID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "condominium not found")
			return
		}
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to update condominium", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "condominium updated"})
}

func (h CondominiumHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "condominium not found")
			return
		}
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to delete condominium", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "condominium deleted"})
}

func parseCondominiumState(s string) (domain.CondominiumState, bool) {
	if s == "" {
		return domain.CondominiumActive, true
	}
	state := domain.CondominiumState(s)
	switch state {
	case domain.CondominiumActive, domain.CondominiumInactive, domain.CondominiumDelinquent:
		return state, true
	}
	return "", false
}
