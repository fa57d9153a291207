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

type VisitHandler struct {
	Repo repository.VisitRepository
}

func (h VisitHandler) RegisterRoutes(r chi.Router) {
	r.Get("/visits", h.list)
	r.Post("/visits", h.create)
	r.Post("/visits/{id}/exit", h.markExit)
	r.Put("/visits/{id}", h.update)
	r.Delete("/visits/{id}", h.delete)
}

func (h VisitHandler) list(w http.ResponseWriter, r *http.Request) {
	condoID, err := condominiumIDQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "condominio_id is required")
		return
	}
	items, err := h.Repo.ListByCondominium(r.Context(), condoID, 100)
	if err != nil {
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to list visits", err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, v := range items {
		resp = append(resp, serializeVisit(v))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h VisitHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CondominiumID int64   `json:"condominium_id"`
		VisitorName   string  `json:"visitor_name"`
		VisitorRUT    string  `json:"visitor_rut"`
		UnitNumber    string  `json:"unit_number"`
		Patent        *string `json:"patent"`
		Comment       string  `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.CondominiumID == 0 || req.VisitorName == "" || req.UnitNumber == "" {
		writeError(w, http.StatusBadRequest, "condominium_id, visitor_name and unit_number are required")
		return
	}

	v, err := h.Repo.Create(r.Context(), repository.CreateVisitInput{
		CondominiumID: req.CondominiumID,
		VisitorName:   req.VisitorName,
		VisitorRUT:    req.VisitorRUT,
		UnitNumber:    req.UnitNumber,
		Patent:        req.Patent,
		Comment:       req.Comment,
	})
	if err != nil {
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to register visit", err)
		return
	}
	writeJSON(w, http.StatusCreated, serializeVisit(*v))
}

func (h VisitHandler) markExit(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Repo.MarkExit(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "visit not found")
		case errors.Is(err, repository.ErrVisitClosed):
			writeError(w, http.StatusBadRequest, "visit already checked out")
		default:
			writeErrorWithErr(w, http.StatusInternalServerError, "failed to mark exit", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "visit checked out"})
}

func (h VisitHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		VisitorName *string `json:"visitor_name"`
		VisitorRUT  *string `json:"visitor_rut"`
		UnitNumber  *string `json:"unit_number"`
		Patent      *string `json:"patent"`
		Comment     *string `json:"comment"`
	}
	body, err := decodeWithKeys(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	_, setPatent := body["patent"]

	err = h.Repo.Update(r.Context(), id, repository.UpdateVisitInput{
		VisitorName: req.VisitorName,
		VisitorRUT:  req.VisitorRUT,
		UnitNumber:  req.UnitNumber,
		Patent:      req.Patent,
		SetPatent:   setPatent,
		Comment:     req.Comment,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "visit not found")
			return
		}
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to update visit", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "visit updated"})
}

func (h VisitHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "visit not found")
			return
		}
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to delete visit", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "visit deleted"})
}

func serializeVisit(v domain.Visit) map[string]any {
	out := map[string]any{
		"id":             v.ID,
		"condominium_id": v.CondominiumID,
		"visitor_name":   v.VisitorName,
		"visitor_rut":    v.VisitorRUT,
		"unit_number":    v.UnitNumber,
		"patent":         v.Patent,
		"comment":        v.Comment,
		"entry_time":     v.EntryTime.Format(time.RFC3339),
	}
	if v.ExitTime != nil {
		out["exit_time"] = v.ExitTime.Format(time.RFC3339)
	} else {
		out["exit_time"] = nil
	}
	return out
}
