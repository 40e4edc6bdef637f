package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/GukMaksim/construction-inventory/internal/application/dto"
)

// ExportUseCase exporta los informes a PDF, XLSX y XML.
type ExportUseCase struct {
	reports *ReportUseCase
	pdf     SiteReportPDFGenerator
	xlsx    SpreadsheetGenerator
	xml     MovementsXMLGenerator
	now     func() time.Time
}

// NewExportUseCase construye el caso de uso inyectando los generadores.
func NewExportUseCase(reports *ReportUseCase, pdf SiteReportPDFGenerator, xlsx SpreadsheetGenerator, xml MovementsXMLGenerator) *ExportUseCase {
	return &ExportUseCase{reports: reports, pdf: pdf, xlsx: xlsx, xml: xml, now: time.Now}
}

// SiteReportPDF devuelve el PDF del informe del objeto y el nombre de archivo sugerido.
func (uc *ExportUseCase) SiteReportPDF(ctx context.Context, siteID int64) (content []byte, filename string, err error) {
	report, err := uc.reports.SiteReport(ctx, siteID)
	if err != nil {
		return nil, "", err
	}
	content, err = uc.pdf.GenerateSiteReportPDF(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("exportar pdf: %w", err)
	}
	return content, fmt.Sprintf("site-%d-report.pdf", siteID), nil
}

// LowStockXLSX devuelve la hoja de stock bajo.
func (uc *ExportUseCase) LowStockXLSX(ctx context.Context) (content []byte, filename string, err error) {
	items, err := uc.reports.LowStock(ctx)
	if err != nil {
		return nil, "", err
	}
	content, err = uc.xlsx.LowStockXLSX(ctx, items)
	if err != nil {
		return nil, "", fmt.Errorf("exportar xlsx: %w", err)
	}
	return content, "low-stock-" + uc.stamp() + ".xlsx", nil
}

// MovementsXLSX devuelve la hoja del informe de movimientos.
func (uc *ExportUseCase) MovementsXLSX(ctx context.Context, q dto.MovementsReportQuery) (content []byte, filename string, err error) {
	report, err := uc.reports.MovementsReport(ctx, q)
	if err != nil {
		return nil, "", err
	}
	content, err = uc.xlsx.MovementsXLSX(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("exportar xlsx: %w", err)
	}
	return content, "stock-movements-" + uc.stamp() + ".xlsx", nil
}

// MovementsXML devuelve el XML del informe de movimientos.
func (uc *ExportUseCase) MovementsXML(ctx context.Context, q dto.MovementsReportQuery) (content []byte, filename string, err error) {
	report, err := uc.reports.MovementsReport(ctx, q)
	if err != nil {
		return nil, "", err
	}
	content, err = uc.xml.MovementsXML(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("exportar xml: %w", err)
	}
	return content, "stock-movements-" + uc.stamp() + ".xml", nil
}

func (uc *ExportUseCase) stamp() string {
	return uc.now().Format("20060102")
}
