package inventory

import (
	"context"

	"github.com/GukMaksim/construction-inventory/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de traslados.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		sectionRepo repository.SectionRepository,
		productRepo repository.ProductRepository,
	) error) error
}
