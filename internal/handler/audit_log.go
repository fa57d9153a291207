package handler

import (
	"net/http"
	"strconv"
	"time"

	"condoadmin-backend/internal/repository"
	"github.com/go-chi/chi/v5"
)

type AuditLogHandler struct {
	Repo repository.AuditLogRepository
}

func (h AuditLogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/audit-logs", h.list)
}

func (h AuditLogHandler) list(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := h.Repo.List(r.Context(), limit)
	if err != nil {
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to list audit logs", err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, l := range items {
		resp = append(resp, map[string]any{
			"id":        l.ID,
			"user_id":   l.UserID,
			"action":    l.Action,
			"entity":    l.Entity,
			"entity_id": l.EntityID,
			"logged_at": l.LoggedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
