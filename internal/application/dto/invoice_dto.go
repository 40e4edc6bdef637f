package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceItemRequest línea de la factura de compra. Total es opcional (se recalcula).
type CreateInvoiceItemRequest struct {
	ProductID int64            `json:"productId" validate:"required"`
	Quantity  decimal.Decimal  `json:"quantity"`
	Price     decimal.Decimal  `json:"price"`
	Total     *decimal.Decimal `json:"total,omitempty"`
}

// CreateInvoiceRequest body para POST /api/invoices.
type CreateInvoiceRequest struct {
	Number     string                     `json:"number" validate:"required,max=100"`
	Date       string                     `json:"date" validate:"required"`
	SupplierID int64                      `json:"supplierId" validate:"required"`
	Items      []CreateInvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

// InvoiceItemResponse línea de factura con datos del producto.
type InvoiceItemResponse struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"productId"`
	ProductCode string          `json:"productCode"`
	ProductName string          `json:"productName"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
}

// InvoiceResponse cabecera de factura; Items solo en el detalle.
type InvoiceResponse struct {
	ID           int64                 `json:"id"`
	Number       string                `json:"number"`
	Date         time.Time             `json:"date"`
	SupplierID   int64                 `json:"supplierId"`
	SupplierName string                `json:"supplierName,omitempty"`
	Total        decimal.Decimal       `json:"total"`
	Items        []InvoiceItemResponse `json:"items,omitempty"`
	CreatedAt    time.Time             `json:"createdAt"`
}

// DeleteInvoiceResponse resultado del borrado de una factura.
type DeleteInvoiceResponse struct {
	ID               int64 `json:"id"`
	DeletedItems     int64 `json:"deletedItems"`
	DeletedMovements int64 `json:"deletedMovements"`
}
