package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unidades de medida admitidas.
const (
	UnitPiece = "PIECE" // шт
	UnitMeter = "METER" // м
	UnitKg    = "KG"    // кг
	UnitLiter = "LITER" // л
	UnitPack  = "PACK"  // уп
	UnitM2    = "M2"    // м²
	UnitM3    = "M3"    // м³
)

// Units lista cerrada de unidades, en el orden en que se muestran en la UI.
var Units = []string{UnitPiece, UnitMeter, UnitKg, UnitLiter, UnitPack, UnitM2, UnitM3}

// IsValidUnit indica si u es una unidad admitida.
func IsValidUnit(u string) bool {
	for _, v := range Units {
		if v == u {
			return true
		}
	}
	return false
}

// Product representa un material del catálogo.
// El stock no se guarda aquí: se deriva siempre de los movimientos.
type Product struct {
	ID          int64
	Code        string // único en todo el catálogo
	Name        string
	Barcode     string // vacío = sin código de barras
	Unit        string
	Price       decimal.Decimal // precio de lista
	MinQuantity decimal.Decimal // umbral de stock bajo (0 por defecto)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
