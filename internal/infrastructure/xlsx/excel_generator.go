// Package xlsx exporta los informes de stock bajo y de movimientos a hojas Excel (excelize).
package xlsx

import (
	"context"
	"fmt"

	"github.com/GukMaksim/construction-inventory/internal/application/analytics"
	"github.com/GukMaksim/construction-inventory/internal/application/dto"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var _ analytics.SpreadsheetGenerator = (*ExcelGenerator)(nil)

const (
	sheetLowStock  = "Stock bajo"
	sheetMovements = "Movimientos"
	sheetTotals    = "Totales"
	dateLayout     = "2006-01-02 15:04"
)

// ExcelGenerator implementa analytics.SpreadsheetGenerator.
type ExcelGenerator struct{}

// NewExcelGenerator construye el generador.
func NewExcelGenerator() *ExcelGenerator { return &ExcelGenerator{} }

// LowStockXLSX una fila por producto en o bajo el mínimo.
func (g *ExcelGenerator) LowStockXLSX(_ context.Context, items []dto.LowStockItemResponse) ([]byte, error) {
	rows := make([][]any, 0, len(items))
	for _, it := range items {
		rows = append(rows, []any{
			it.Code, it.Name, it.Unit, num(it.MinQuantity), num(it.CurrentStock), num(it.Price), num(it.Value),
		})
	}
	return build(func(f *excelize.File) error {
		return writeSheet(f, sheetLowStock,
			[]string{"Código", "Material", "Unidad", "Mínimo", "Stock", "Precio", "Valor"}, rows)
	})
}

// MovementsXLSX hoja de detalle (un movimiento por fila) y hoja de totales por producto.
func (g *ExcelGenerator) MovementsXLSX(_ context.Context, report *dto.MovementsReportResponse) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("xlsx: informe vacío")
	}
	var detail, totals [][]any
	for _, p := range report.Products {
		totals = append(totals, []any{p.Code, p.Name, p.Unit, num(p.TotalIn), num(p.TotalOut)})
		for _, m := range p.Movements {
			location := "Склад"
			if m.Section != nil {
				location = m.Section.SiteName + " - " + m.Section.Name
			}
			detail = append(detail, []any{
				m.Date.Format(dateLayout), p.Code, p.Name, m.Type, num(m.Quantity), location, m.DocumentType, m.Comment,
			})
		}
	}
	return build(func(f *excelize.File) error {
		err := writeSheet(f, sheetMovements,
			[]string{"Fecha", "Código", "Material", "Tipo", "Cantidad", "Ubicación", "Documento", "Comentario"}, detail)
		if err != nil {
			return err
		}
		return writeSheet(f, sheetTotals, []string{"Código", "Material", "Unidad", "Entradas", "Salidas"}, totals)
	})
}

// build crea el libro, ejecuta fill, elimina la hoja por defecto y serializa.
func build(fill func(f *excelize.File) error) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := fill(f); err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, headings []string, rows [][]any) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	header := make([]any, len(headings))
	for i, h := range headings {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headings), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := r
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

// num celdas numéricas: Excel no tiene decimal exacto.
func num(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
