package handler

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"condoadmin-backend/internal/domain"
	"condoadmin-backend/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"
)

type ExpenseHandler struct {
	Repo repository.ExpenseRepository
}

func (h ExpenseHandler) RegisterRoutes(r chi.Router) {
	r.Get("/expenses", h.list)
	r.Post("/expenses", h.create)
	r.Get("/expenses/export", h.export)
	r.Get("/expenses/category", h.listCategories)
	r.Get("/expenses/status", h.listStatuses)
}

func (h ExpenseHandler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := expenseFilterQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date filter (use YYYY-MM-DD)")
		return
	}
	items, err := h.Repo.List(r.Context(), filter, 200)
	if err != nil {
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to list expenses", err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, e := range items {
		resp = append(resp, serializeExpense(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h ExpenseHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProviderID     int64         `json:"provider_id"`
		CategoryID     int64         `json:"category_id"`
		CondominiumID  int64         `json:"condominium_id"`
		ExpenseDate    string        `json:"expense_date"`
		Observation    string        `json:"observation"`
		Amount         domain.Amount `json:"amount"`
		DocumentNumber string        `json:"document_number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	switch {
	case req.ProviderID == 0, req.CategoryID == 0, req.CondominiumID == 0:
		writeError(w, http.StatusBadRequest, "provider_id, category_id and condominium_id are required")
		return
	case req.ExpenseDate == "", req.Observation == "", req.DocumentNumber == "":
		writeError(w, http.StatusBadRequest, "expense_date, observation and document_number are required")
		return
	case req.Amount == 0:
		writeError(w, http.StatusBadRequest, "amount is required")
		return
	}
	date, err := time.Parse(dateLayout, req.ExpenseDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense_date (use YYYY-MM-DD)")
		return
	}

	expense, err := h.Repo.Create(r.Context(), repository.CreateExpenseInput{
		CondominiumID:  req.CondominiumID,
		ProviderID:     req.ProviderID,
		CategoryID:     req.CategoryID,
		Amount:         req.Amount,
		ExpenseDate:    date,
		Observation:    req.Observation,
		DocumentNumber: req.DocumentNumber,
		StatusID:       domain.StatusPending,
	})
	if err != nil {
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to create expense", err)
		return
	}
	writeJSON(w, http.StatusCreated, serializeExpense(*expense))
}

func (h ExpenseHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Repo.ListCategories(r.Context())
	if err != nil {
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to list categories", err)
		return
	}
	resp := make([]map[string]any, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, map[string]any{
			"id":          c.ID,
			"name":        c.Name,
			"description": c.Description,
			"is_active":   c.IsActive,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h ExpenseHandler) listStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.Repo.ListStatuses(r.Context())
	if err != nil {
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to list statuses", err)
		return
	}
	resp := make([]map[string]any, 0, len(statuses))
	for _, s := range statuses {
		resp = append(resp, map[string]any{
			"id":          int32(s.ID),
			"name":        s.Name,
			"description": s.Description,
			"is_active":   s.IsActive,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h ExpenseHandler) export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	filter, err := expenseFilterQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date filter (use YYYY-MM-DD)")
		return
	}

	items, err := h.Repo.List(r.Context(), filter, 2000)
	if err != nil {
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to list expenses", err)
		return
	}
	filenameSuffix := time.Now().Format("20060102_150405")

	switch format {
	case "csv":
		data, err := exportExpensesCSV(items)
		if err != nil {
			writeErrorWithErr(w, http.StatusInternalServerError, "failed to export", err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"expenses_%s.csv\"", filenameSuffix))
		_, _ = w.Write(data)
	case "xlsx", "excel":
		data, err := exportExpensesXLSX(items)
		if err != nil {
			writeErrorWithErr(w, http.StatusInternalServerError, "failed to export", err)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"expenses_%s.xlsx\"", filenameSuffix))
		_, _ = w.Write(data)
	default:
		writeError(w, http.StatusBadRequest, "invalid format (use csv or xlsx)")
	}
}

func exportExpensesCSV(items []domain.Expense) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"id", "condominium_id", "provider_id", "category_id", "maintenance_id", "amount", "expense_date", "observation", "document_number", "status_id"})
	for _, e := range items {
		maintenanceID := ""
		if e.MaintenanceID != nil {
			maintenanceID = strconv.FormatInt(*e.MaintenanceID, 10)
		}
		_ = w.Write([]string{
			strconv.FormatInt(e.ID, 10),
			strconv.FormatInt(e.CondominiumID, 10),
			strconv.FormatInt(e.ProviderID, 10),
			strconv.FormatInt(e.CategoryID, 10),
			maintenanceID,
			e.Amount.String(),
			e.ExpenseDate.Format(dateLayout),
			e.Observation,
			e.DocumentNumber,
			strconv.Itoa(int(e.StatusID)),
		})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func exportExpensesXLSX(items []domain.Expense) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Expenses"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	header := []string{"ID", "Condominium", "Provider", "Category", "Maintenance", "Amount", "Date", "Observation", "Document", "Status"}
	for c, v := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(sheet, cell, v)
	}
	for r, e := range items {
		row := r + 2
		var maintenanceID any
		if e.MaintenanceID != nil {
			maintenanceID = *e.MaintenanceID
		}
		values := []any{
			e.ID,
			e.CondominiumID,
			e.ProviderID,
			e.CategoryID,
			maintenanceID,
			e.Amount.Float64(),
			e.ExpenseDate.Format(dateLayout),
			e.Observation,
			e.DocumentNumber,
			int(e.StatusID),
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
	})
	_ = f.SetCellStyle(sheet, "A1", "J1", style)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func expenseFilterQuery(r *http.Request) (repository.ExpenseFilter, error) {
	from, err := parseDateQuery(r, "from")
	if err != nil {
		return repository.ExpenseFilter{}, err
	}
	to, err := parseDateQuery(r, "to")
	if err != nil {
		return repository.ExpenseFilter{}, err
	}
	return repository.ExpenseFilter{From: from, To: to}, nil
}

func serializeExpense(e domain.Expense) map[string]any {
	return map[string]any{
		"id":              e.ID,
		"condominium_id":  e.CondominiumID,
		"provider_id":     e.ProviderID,
		"category_id":     e.CategoryID,
		"maintenance_id":  e.MaintenanceID,
		"amount":          e.Amount,
		"expense_date":    e.ExpenseDate.Format(dateLayout),
		"observation":     e.Observation,
		"document_number": e.DocumentNumber,
		"status_id":       int32(e.StatusID),
	}
}
