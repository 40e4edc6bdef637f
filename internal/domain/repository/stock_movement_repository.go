package repository

import (
	"context"
	"time"

	"github.com/GukMaksim/construction-inventory/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// MovementFilter filtro de consulta del libro de movimientos. Campos nil = sin filtro.
// From y To son inclusivos.
type MovementFilter struct {
	ProductID  *int64
	SectionID  *int64
	SectionIDs []int64
	From       *time.Time
	To         *time.Time
	// Limit 0 = sin límite. Con Limit > 0 el orden es fecha descendente (más recientes primero).
	Limit int
}

// StockMovementRepository define el puerto del libro de movimientos (append-only).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, error)
	// SectionBalance suma con signo (IN - OUT) de los movimientos de un producto en una sección.
	SectionBalance(ctx context.Context, sectionID, productID int64) (decimal.Decimal, error)
	CountByProduct(ctx context.Context, productID int64) (int, error)
	// DeleteByDocument borra los movimientos generados por un documento; devuelve cuántos.
	DeleteByDocument(ctx context.Context, documentType string, documentID int64) (int64, error)
	DeleteByInvoiceItem(ctx context.Context, itemID int64) (int64, error)
}
