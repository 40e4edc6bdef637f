package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento. El signo lo da el tipo, nunca la cantidad.
const (
	MovementTypeIN  = "IN"
	MovementTypeOUT = "OUT"
)

// Tipos de documento que originan un movimiento.
const (
	DocumentTypeInvoice  = "INVOICE"
	DocumentTypeTransfer = "TRANSFER"
)

// Decimales admitidos, los mismos que las columnas NUMERIC del esquema.
const (
	QuantityScale int32 = 3
	PriceScale    int32 = 2
)

// FitsScale indica si d no tiene más de places decimales. PostgreSQL redondea el resto sin avisar.
func FitsScale(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}

// StockMovement entrada del libro de movimientos (append-only).
// SectionID nil = almacén. Los movimientos de factura llevan DocumentID = invoice.id
// e InvoiceItemID = la línea que los originó (relación 1:1).
type StockMovement struct {
	ID            int64
	Date          time.Time
	Type          string
	ProductID     int64
	SectionID     *int64
	Quantity      decimal.Decimal // siempre > 0
	Price         decimal.Decimal // precio unitario al momento del movimiento
	Comment       string
	DocumentID    *int64
	DocumentType  string
	InvoiceItemID *int64
	CreatedBy     int64 // 0 = sistema
	CreatedAt     time.Time
}

// IsWarehouse indica si el movimiento es del almacén (sin sección).
func (m StockMovement) IsWarehouse() bool {
	return m.SectionID == nil
}
