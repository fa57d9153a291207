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

type ProviderHandler struct {
	Repo repository.ProviderRepository
}

func (h ProviderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/providers", h.list)
	r.Post("/providers", h.create)
	r.Put("/providers/{id}", h.update)
	r.Delete("/providers/{id}", h.delete)
}

func (h ProviderHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.List(r.Context())
	if err != nil {
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to list providers", err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, p := range items {
		resp = append(resp, serializeProvider(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h ProviderHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		ServiceType string `json:"service_type"`
		RUT         string `json:"rut"`
		Email       string `json:"email"`
		Phone       string `json:"phone"`
		Address     string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" || req.RUT == "" {
		writeError(w, http.StatusBadRequest, "name and rut are required")
		return
	}

	p, err := h.Repo.Create(r.Context(), repository.CreateProviderInput{
		Name:        req.Name,
		ServiceType: req.ServiceType,
		RUT:         req.RUT,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		IsActive:    true,
	})
	if err != nil {
		if repository.IsDuplicate(err) {
			writeError(w, http.StatusConflict, "a provider with that rut already exists")
			return
		}
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to create provider", err)
		return
	}
	writeJSON(w, http.StatusCreated, serializeProvider(*p))
}

func (h ProviderHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		Name        *string `json:"name"`
		ServiceType *string `json:"service_type"`
		RUT         *string `json:"rut"`
		Email       *string `json:"email"`
		Phone       *string `json:"phone"`
		Address     *string `json:"address"`
		IsActive    *bool   `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	err = h.Repo.Update(r.Context(), id, repository.UpdateProviderInput{
		Name:        req.Name,
		ServiceType: req.ServiceType,
		RUT:         req.RUT,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		IsActive:    req.IsActive,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "provider not found")
			return
		}
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to update provider", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "provider updated"})
}

func (h ProviderHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "provider not found")
			return
		}
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to delete provider", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "provider deleted"})
}

func serializeProvider(p domain.Provider) map[string]any {
	return map[string]any{
		"id":           p.ID,
		"name":         p.Name,
		"service_type": p.ServiceType,
		"rut":          p.RUT,
		"email":        p.Email,
		"phone":        p.Phone,
		"address":      p.Address,
		"is_active":    p.IsActive,
		"created_at":   p.CreatedAt.Format(time.RFC3339),
	}
}
