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

type DeliveryHandler struct {
	Repo repository.DeliveryRepository
}

func (h DeliveryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/deliveries", h.list)
	r.Post("/deliveries", h.create)
	r.Post("/deliveries/{id}/pickup", h.markPickup)
	r.Put("/deliveries/{id}", h.update)
	r.Delete("/deliveries/{id}", h.delete)
}

func (h DeliveryHandler) list(w http.ResponseWriter, r *http.Request) {
	condoID, err := condominiumIDQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "condominio_id is required")
		return
	}
	items, err := h.Repo.ListByCondominium(r.Context(), condoID, 100)
	if err != nil {
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to list deliveries", err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, d := range items {
		resp = append(resp, serializeDelivery(d))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h DeliveryHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CondominiumID int64  `json:"condominium_id"`
		UnitNumber    string `json:"unit_number"`
		RecipientName string `json:"recipient_name"`
		TrackingCode  string `json:"tracking_code"`
		Comment       string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.CondominiumID == 0 || req.UnitNumber == "" || req.RecipientName == "" {
		writeError(w, http.StatusBadRequest, "condominium_id, unit_number and recipient_name are required")
		return
	}

	d, err := h.Repo.Create(r.Context(), repository.CreateDeliveryInput{
		CondominiumID: req.CondominiumID,
		UnitNumber:    req.UnitNumber,
		RecipientName: req.RecipientName,
		TrackingCode:  req.TrackingCode,
		Comment:       req.Comment,
	})
	if err != nil {
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to register delivery", err)
		return
	}
	writeJSON(w, http.StatusCreated, serializeDelivery(*d))
}

func (h DeliveryHandler) markPickup(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Repo.MarkPickup(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "delivery not found")
			return
		}
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to mark pickup", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "delivery picked up"})
}

func (h DeliveryHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		UnitNumber    *string `json:"unit_number"`
		RecipientName *string `json:"recipient_name"`
		TrackingCode  *string `json:"tracking_code"`
		Comment       *string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	err = h.Repo.Update(r.Context(), id, repository.UpdateDeliveryInput{
		UnitNumber:    req.UnitNumber,
		RecipientName: req.RecipientName,
		TrackingCode:  req.TrackingCode,
		Comment:       req.Comment,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "delivery not found")
			return
		}
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to update delivery", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "delivery updated"})
}

func (h DeliveryHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "delivery not found")
			return
		}
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to delete delivery", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "delivery deleted"})
}

func serializeDelivery(d domain.Delivery) map[string]any {
	out := map[string]any{
		"id":             d.ID,
		"condominium_id": d.CondominiumID,
		"unit_number":    d.UnitNumber,
		"recipient_name": d.RecipientName,
		"tracking_code":  d.TrackingCode,
		"comment":        d.Comment,
		"status":         string(d.Status),
		"arrival_time":   d.ArrivalTime.Format(time.RFC3339),
	}
	if d.PickupTime != nil {
		out["pickup_time"] = d.PickupTime.Format(time.RFC3339)
	} else {
		out["pickup_time"] = nil
	}
	return out
}
