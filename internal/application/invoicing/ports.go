package invoicing

import (
	"context"

	"github.com/GukMaksim/construction-inventory/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción que incluye repos de facturas y del libro de movimientos.
// Si fn retorna error se hace rollback de todo lo escrito.
type TxRunner interface {
	RunInvoice(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// TotalPolicy cómo tratar un total de línea enviado por el cliente que no coincide con cantidad * precio.
type TotalPolicy string

const (
	// TotalPolicyRecompute usa el total recalculado y registra una advertencia.
	TotalPolicyRecompute TotalPolicy = "recompute"
	// TotalPolicyStrict rechaza la factura.
	TotalPolicyStrict TotalPolicy = "strict"
)

// ParseTotalPolicy interpreta el valor de configuración; desconocido = recompute.
func ParseTotalPolicy(s string) TotalPolicy {
	if TotalPolicy(s) == TotalPolicyStrict {
		return TotalPolicyStrict
	}
	return TotalPolicyRecompute
}
