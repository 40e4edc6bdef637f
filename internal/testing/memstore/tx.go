package memstore

import (
	"context"

	"github.com/GukMaksim/construction-inventory/internal/domain/repository"
)

// Run implementa inventory.TxRunner. Las transacciones se serializan (equivalente al FOR UPDATE de la sección);
// si fn falla se restaura la instantánea previa.
func (s *Store) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	sectionRepo repository.SectionRepository,
	productRepo repository.ProductRepository,
) error) error {
	return s.inTx(ctx, func() error {
		return fn(s.Movements(), s.Sections(), s.Products())
	})
}

// RunInvoice implementa invoicing.TxRunner.
func (s *Store) RunInvoice(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	return s.inTx(ctx, func() error {
		return fn(s.Invoices(), s.Movements())
	})
}

func (s *Store) inTx(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snap := s.st.snapshot()
	s.mu.Unlock()

	if err := fn(); err != nil {
		s.mu.Lock()
		s.st = snap
		s.mu.Unlock()
		return err
	}
	return nil
}
