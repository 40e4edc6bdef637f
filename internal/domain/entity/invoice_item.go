package entity

import "github.com/shopspring/decimal"

// InvoiceItem línea de una factura. Total = Quantity * Price.
type InvoiceItem struct {
	ID        int64
	InvoiceID int64
	ProductID int64
	Quantity  decimal.Decimal
	Price     decimal.Decimal
	Total     decimal.Decimal
}
