// Package memstore implementa en memoria todos los puertos de persistencia y los TxRunner,
// con rollback por instantánea e inyección de fallos. Se usa en tests de casos de uso y handlers.
package memstore

import (
	"fmt"
	"sync"

	"github.com/GukMaksim/construction-inventory/internal/domain/entity"
	"github.com/GukMaksim/construction-inventory/internal/domain/repository"
)

// Operaciones donde se puede inyectar un fallo con FailOn.
const (
	OpProductCreate    = "product.create"
	OpInvoiceCreate    = "invoice.create"
	OpInvoiceItem      = "invoice.create_item"
	OpInvoiceDelete    = "invoice.delete"
	OpInvoiceTotal     = "invoice.update_total"
	OpMovementCreate   = "movement.create"
	OpMovementDelete   = "movement.delete"
	OpSectionForUpdate = "section.get_for_update"
	OpSiteGet          = "site.get"
	OpSupplierGet      = "supplier.get"
)

type state struct {
	products  map[int64]*entity.Product
	suppliers map[int64]*entity.Supplier
	invoices  map[int64]*entity.Invoice
	items     map[int64]*entity.InvoiceItem
	sites     map[int64]*entity.ConstructionSite
	sections  map[int64]*entity.Section
	movements map[int64]*entity.StockMovement
	users     map[int64]*entity.User
}

func newState() state {
	return state{
		products:  map[int64]*entity.Product{},
		suppliers: map[int64]*entity.Supplier{},
		invoices:  map[int64]*entity.Invoice{},
		items:     map[int64]*entity.InvoiceItem{},
		sites:     map[int64]*entity.ConstructionSite{},
		sections:  map[int64]*entity.Section{},
		movements: map[int64]*entity.StockMovement{},
		users:     map[int64]*entity.User{},
	}
}

// los valores guardados nunca se modifican en sitio, basta con copiar los mapas
func (st state) snapshot() state {
	return state{
		products:  copyMap(st.products),
		suppliers: copyMap(st.suppliers),
		invoices:  copyMap(st.invoices),
		items:     copyMap(st.items),
		sites:     copyMap(st.sites),
		sections:  copyMap(st.sections),
		movements: copyMap(st.movements),
		users:     copyMap(st.users),
	}
}

func copyMap[T any](m map[int64]*T) map[int64]*T {
	out := make(map[int64]*T, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Store base de datos en memoria.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	seq  int64
	st   state
	fail map[string]error
}

// New crea un store vacío.
func New() *Store {
	return &Store{st: newState(), fail: map[string]error{}}
}

// FailOn hace que la operación op devuelva err (hasta ClearFailures).
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[op] = err
}

// ClearFailures elimina los fallos inyectados.
func (s *Store) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = map[string]error{}
}

// requiere s.mu tomado
func (s *Store) injected(op string) error {
	if err, ok := s.fail[op]; ok {
		return fmt.Errorf("memstore %s: %w", op, err)
	}
	return nil
}

// requiere s.mu tomado
func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

// Repositorios sobre el store.
func (s *Store) Products() repository.ProductRepository        { return &productRepo{s} }
func (s *Store) Suppliers() repository.SupplierRepository      { return &supplierRepo{s} }
func (s *Store) Invoices() repository.InvoiceRepository        { return &invoiceRepo{s} }
func (s *Store) Sites() repository.SiteRepository              { return &siteRepo{s} }
func (s *Store) Sections() repository.SectionRepository        { return &sectionRepo{s} }
func (s *Store) Movements() repository.StockMovementRepository { return &movementRepo{s} }
func (s *Store) Users() repository.UserRepository              { return &userRepo{s} }

// MovementCount número de movimientos guardados.
func (s *Store) MovementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.movements)
}

// InvoiceCount número de facturas guardadas.
func (s *Store) InvoiceCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.invoices)
}

// ItemCount número de líneas de factura guardadas.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.items)
}

func cloneID(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneMovement(m *entity.StockMovement) *entity.StockMovement {
	c := *m
	c.SectionID = cloneID(m.SectionID)
	c.DocumentID = cloneID(m.DocumentID)
	c.InvoiceItemID = cloneID(m.InvoiceItemID)
	return &c
}

func clone[T any](v *T) *T {
	c := *v
	return &c
}
