package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice cabecera de una factura de proveedor (entrada de material al almacén).
// Total es un valor derivado: la suma de los totales de sus líneas.
type Invoice struct {
	ID         int64
	Number     string // único
	Date       time.Time
	SupplierID int64
	Total      decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
