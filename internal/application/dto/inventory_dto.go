package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferRequest body para POST /api/stock/transfer.
type TransferRequest struct {
	ProductID int64           `json:"productId" validate:"required"`
	SectionID int64           `json:"sectionId" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	Type      string          `json:"type" validate:"required,oneof=IN OUT"`
	Comment   string          `json:"comment" validate:"omitempty,max=500"`
}

// MovementResponse movimiento del libro enriquecido con producto, sección y objeto.
type MovementResponse struct {
	ID            int64           `json:"id"`
	Date          time.Time       `json:"date"`
	Type          string          `json:"type"`
	ProductID     int64           `json:"productId"`
	ProductCode   string          `json:"productCode,omitempty"`
	ProductName   string          `json:"productName,omitempty"`
	SectionID     *int64          `json:"sectionId"`
	SectionName   string          `json:"sectionName,omitempty"`
	SiteName      string          `json:"siteName,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	Comment       string          `json:"comment,omitempty"`
	DocumentID    *int64          `json:"documentId"`
	DocumentType  string          `json:"documentType"`
	InvoiceItemID *int64          `json:"invoiceItemId,omitempty"`
	CreatedBy     int64           `json:"createdBy"`
}

// LocationStockResponse saldo de un producto en una ubicación (sección o almacén).
type LocationStockResponse struct {
	Key       string          `json:"key"`
	SectionID *int64          `json:"sectionId"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// StockStatusResponse saldo total y por ubicación de un producto.
type StockStatusResponse struct {
	ProductID     int64                   `json:"productId"`
	Code          string                  `json:"code"`
	Name          string                  `json:"name"`
	Unit          string                  `json:"unit"`
	Price         decimal.Decimal         `json:"price"`
	MinQuantity   decimal.Decimal         `json:"minQuantity"`
	TotalQuantity decimal.Decimal         `json:"totalQuantity"`
	AvgPrice      decimal.Decimal         `json:"avgPrice"`
	Locations     []LocationStockResponse `json:"locations"`
}

// LowStockItemResponse producto con saldo en o bajo el mínimo.
type LowStockItemResponse struct {
	ProductID    int64           `json:"productId"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	Price        decimal.Decimal `json:"price"`
	MinQuantity  decimal.Decimal `json:"minQuantity"`
	CurrentStock decimal.Decimal `json:"currentStock"`
	Value        decimal.Decimal `json:"value"`
}
