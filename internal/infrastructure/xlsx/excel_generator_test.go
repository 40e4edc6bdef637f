package xlsx

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/GukMaksim/construction-inventory/internal/application/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func open(t *testing.T, content []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestLowStockXLSX(t *testing.T) {
	items := []dto.LowStockItemResponse{
		{Code: "CAB-01", Name: "Кабель", Unit: "METER", MinQuantity: d("10"), CurrentStock: d("5"), Price: d("95"), Value: d("475")},
		{Code: "PPR-20", Name: "Труба", Unit: "METER", MinQuantity: d("0"), CurrentStock: d("-2"), Price: d("60"), Value: d("-120")},
	}
	out, err := NewExcelGenerator().LowStockXLSX(context.Background(), items)
	require.NoError(t, err)

	f := open(t, out)
	assert.Equal(t, []string{sheetLowStock}, f.GetSheetList())
	rows, err := f.GetRows(sheetLowStock)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Código", rows[0][0])
	assert.Equal(t, "CAB-01", rows[1][0])
	assert.Equal(t, "475", rows[1][6])
	assert.Equal(t, "-120", rows[2][6])
}

func TestMovementsXLSX(t *testing.T) {
	at := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	report := &dto.MovementsReportResponse{
		Products: []dto.ProductMovementsResponse{{
			Code: "CAB-01", Name: "Кабель", Unit: "METER", TotalIn: d("10"), TotalOut: d("3"),
			Movements: []dto.ReportMovementResponse{
				{ID: 1, Date: at, Type: "IN", Quantity: d("10"), DocumentType: "INVOICE", Comment: "Factura INV-1"},
				{ID: 2, Date: at.Add(time.Hour), Type: "OUT", Quantity: d("3"), DocumentType: "TRANSFER",
					Section: &dto.ReportSectionResponse{ID: 5, Name: "Электрика", SiteID: 4, SiteName: "ЖК Южный"}},
			},
		}},
	}
	out, err := NewExcelGenerator().MovementsXLSX(context.Background(), report)
	require.NoError(t, err)

	f := open(t, out)
	assert.Equal(t, []string{sheetMovements, sheetTotals}, f.GetSheetList())

	detail, err := f.GetRows(sheetMovements)
	require.NoError(t, err)
	require.Len(t, detail, 3)
	assert.Equal(t, "2024-03-10 12:00", detail[1][0])
	assert.Equal(t, "Склад", detail[1][5])
	assert.Equal(t, "ЖК Южный - Электрика", detail[2][5])

	totals, err := f.GetRows(sheetTotals)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, []string{"CAB-01", "Кабель", "METER", "10", "3"}, totals[1])

	_, err = NewExcelGenerator().MovementsXLSX(context.Background(), nil)
	assert.Error(t, err)
}
