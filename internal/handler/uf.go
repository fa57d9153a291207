package handler

import (
	"context"
	"errors"
	"net/http"

	"condoadmin-backend/internal/service"
	"github.com/go-chi/chi/v5"
)

// UFProvider resolves the current UF indicator value.
type UFProvider interface {
	UF(ctx context.Context) (*service.UFValue, error)
}

type UFHandler struct {
	Indicators UFProvider
}

func (h UFHandler) RegisterRoutes(r chi.Router) {
	r.Get("/uf", h.current)
}

func (h UFHandler) current(w http.ResponseWriter, r *http.Request) {
	v, err := h.Indicators.UF(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrIndicatorUnavailable) {
			writeError(w, http.StatusNotFound, "uf value not available")
			return
		}
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to fetch uf value", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"fecha":   v.Date,
		"valorUF": v.Value,
	})
}
