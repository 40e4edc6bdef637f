package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SiteReportResponse valoración de un objeto por secciones.
type SiteReportResponse struct {
	SiteID      int64                   `json:"siteId"`
	SiteName    string                  `json:"siteName"`
	SiteAddress string                  `json:"siteAddress"`
	Status      string                  `json:"status"`
	TotalValue  decimal.Decimal         `json:"totalValue"`
	Sections    []SectionReportResponse `json:"sections"`
}

// SectionReportResponse valoración de una sección.
type SectionReportResponse struct {
	ID         int64                    `json:"id"`
	Name       string                   `json:"name"`
	Type       string                   `json:"type"`
	TotalValue decimal.Decimal          `json:"totalValue"`
	Products   []SectionProductResponse `json:"products"`
}

// SectionProductResponse producto con saldo positivo en la sección.
type SectionProductResponse struct {
	ProductID  int64           `json:"productId"`
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	Unit       string          `json:"unit"`
	Price      decimal.Decimal `json:"price"`
	Quantity   decimal.Decimal `json:"quantity"`
	TotalValue decimal.Decimal `json:"totalValue"`
}

// MovementsReportQuery parámetros del informe de movimientos (fechas YYYY-MM-DD o RFC3339).
type MovementsReportQuery struct {
	StartDate string `query:"startDate"`
	EndDate   string `query:"endDate"`
}

// MovementsReportResponse movimientos del periodo agrupados por producto.
type MovementsReportResponse struct {
	StartDate *time.Time                 `json:"startDate"`
	EndDate   *time.Time                 `json:"endDate"`
	Products  []ProductMovementsResponse `json:"products"`
}

// ProductMovementsResponse totales y movimientos de un producto.
type ProductMovementsResponse struct {
	ProductID int64                    `json:"productId"`
	Code      string                   `json:"code"`
	Name      string                   `json:"name"`
	Unit      string                   `json:"unit"`
	TotalIn   decimal.Decimal          `json:"totalIn"`
	TotalOut  decimal.Decimal          `json:"totalOut"`
	Movements []ReportMovementResponse `json:"movements"`
}

// ReportMovementResponse línea del informe de movimientos. Section nil = almacén.
type ReportMovementResponse struct {
	ID           int64                  `json:"id"`
	Date         time.Time              `json:"date"`
	Type         string                 `json:"type"`
	Quantity     decimal.Decimal        `json:"quantity"`
	DocumentType string                 `json:"documentType"`
	Comment      string                 `json:"comment,omitempty"`
	Section      *ReportSectionResponse `json:"section"`
}

// ReportSectionResponse sección con el nombre de su objeto.
type ReportSectionResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	SiteID   int64  `json:"siteId"`
	SiteName string `json:"siteName"`
}

// SummaryResponse indicadores generales del tablero.
type SummaryResponse struct {
	TotalSites      int             `json:"totalSites"`
	ActiveSections  int             `json:"activeSections"`
	SitesValue      decimal.Decimal `json:"sitesValue"`
	TotalStockValue decimal.Decimal `json:"totalStockValue"`
}
