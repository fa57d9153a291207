package handler

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"condoadmin-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleExpenses() []domain.Expense {
	maintenanceID := int64(9)
	return []domain.Expense{
		{
			ID:             1,
			CondominiumID:  1,
			ProviderID:     2,
			CategoryID:     1,
			MaintenanceID:  &maintenanceID,
			Amount:         domain.Amount(15050),
			ExpenseDate:    time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			Observation:    "Gasto automático de Mantención: Ascensor",
			DocumentNumber: "F-100",
			StatusID:       domain.StatusPaid,
		},
		{
			ID:             2,
			CondominiumID:  1,
			ProviderID:     3,
			CategoryID:     3,
			Amount:         domain.Amount(9900),
			ExpenseDate:    time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
			Observation:    "Agua",
			DocumentNumber: "F-101",
			StatusID:       domain.StatusPending,
		},
	}
}

func TestExportExpensesCSV(t *testing.T) {
	data, err := exportExpensesCSV(sampleExpenses())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "id", records[0][0])
	assert.Equal(t, "150.50", records[1][5])
	assert.Equal(t, "9", records[1][4])
	assert.Equal(t, "2", records[1][9])
	// Expenses without a maintenance link leave the column empty.
	assert.Equal(t, "", records[2][4])
	assert.Equal(t, "1", records[2][9])
}

func TestExportExpensesXLSX(t *testing.T) {
	data, err := exportExpensesXLSX(sampleExpenses())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Expenses")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "150.5", rows[1][5])
	assert.Equal(t, "Agua", rows[2][7])
}
