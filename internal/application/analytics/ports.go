package analytics

import (
	"context"

	"github.com/GukMaksim/construction-inventory/internal/application/dto"
)

// SiteReportPDFGenerator genera el PDF del informe de un objeto.
type SiteReportPDFGenerator interface {
	GenerateSiteReportPDF(ctx context.Context, report *dto.SiteReportResponse) ([]byte, error)
}

// SpreadsheetGenerator genera hojas de cálculo (XLSX) de los informes.
type SpreadsheetGenerator interface {
	LowStockXLSX(ctx context.Context, items []dto.LowStockItemResponse) ([]byte, error)
	MovementsXLSX(ctx context.Context, report *dto.MovementsReportResponse) ([]byte, error)
}

// MovementsXMLGenerator genera el XML de intercambio del informe de movimientos.
type MovementsXMLGenerator interface {
	MovementsXML(ctx context.Context, report *dto.MovementsReportResponse) ([]byte, error)
}
