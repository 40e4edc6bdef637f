package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/GukMaksim/construction-inventory/internal/domain"
	"github.com/GukMaksim/construction-inventory/internal/domain/entity"
	invdomain "github.com/GukMaksim/construction-inventory/internal/domain/inventory"
	"github.com/GukMaksim/construction-inventory/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.ProductRepository       = (*productRepo)(nil)
	_ repository.SupplierRepository      = (*supplierRepo)(nil)
	_ repository.InvoiceRepository       = (*invoiceRepo)(nil)
	_ repository.SiteRepository          = (*siteRepo)(nil)
	_ repository.SectionRepository       = (*sectionRepo)(nil)
	_ repository.StockMovementRepository = (*movementRepo)(nil)
	_ repository.UserRepository          = (*userRepo)(nil)
)

// ── Productos ────────────────────────────────────────────────────────────────

type productRepo struct{ s *Store }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected(OpProductCreate); err != nil {
		return err
	}
	for _, other := range r.s.st.products {
		if other.Code == p.Code {
			return domain.ErrDuplicateProductCode
		}
	}
	p.ID = r.s.nextID()
	r.s.st.products[p.ID] = clone(p)
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.st.products[id]; ok {
		return clone(p), nil
	}
	return nil, nil
}

func (r *productRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.st.products {
		if p.Code == code {
			return clone(p), nil
		}
	}
	return nil, nil
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, other := range r.s.st.products {
		if other.ID != p.ID && other.Code == p.Code {
			return domain.ErrDuplicateProductCode
		}
	}
	r.s.st.products[p.ID] = clone(p)
	return nil
}

func (r *productRepo) List(_ context.Context) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Product, 0, len(r.s.st.products))
	for _, p := range r.s.st.products {
		out = append(out, clone(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *productRepo) Search(ctx context.Context, query string, limit int) ([]*entity.Product, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	out := []*entity.Product{}
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Code), q) ||
			strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Barcode), q) {
			out = append(out, p)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *productRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.st.movements {
		if m.ProductID == id {
			return domain.ErrInUse
		}
	}
	for _, it := range r.s.st.items {
		if it.ProductID == id {
			return domain.ErrInUse
		}
	}
	delete(r.s.st.products, id)
	return nil
}

// ── Proveedores ──────────────────────────────────────────────────────────────

type supplierRepo struct{ s *Store }

func (r *supplierRepo) Create(_ context.Context, sp *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sp.ID = r.s.nextID()
	r.s.st.suppliers[sp.ID] = clone(sp)
	return nil
}

func (r *supplierRepo) GetByID(_ context.Context, id int64) (*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected(OpSupplierGet); err != nil {
		return nil, err
	}
	if sp, ok := r.s.st.suppliers[id]; ok {
		return clone(sp), nil
	}
	return nil, nil
}

func (r *supplierRepo) Update(_ context.Context, sp *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.suppliers[sp.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.suppliers[sp.ID] = clone(sp)
	return nil
}

func (r *supplierRepo) List(_ context.Context) ([]*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Supplier, 0, len(r.s.st.suppliers))
	for _, sp := range r.s.st.suppliers {
		out = append(out, clone(sp))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *supplierRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.st.invoices {
		if inv.SupplierID == id {
			return domain.ErrInUse
		}
	}
	delete(r.s.st.suppliers, id)
	return nil
}

// ── Facturas ─────────────────────────────────────────────────────────────────

type invoiceRepo struct{ s *Store }

func (r *invoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected(OpInvoiceCreate); err != nil {
		return err
	}
	for _, other := range r.s.st.invoices {
		if other.Number == inv.Number {
			return domain.ErrDuplicateInvoiceNumber
		}
	}
	inv.ID = r.s.nextID()
	r.s.st.invoices[inv.ID] = clone(inv)
	return nil
}

func (r *invoiceRepo) CreateItem(_ context.Context, it *entity.InvoiceItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected(OpInvoiceItem); err != nil {
		return err
	}
	if _, ok := r.s.st.invoices[it.InvoiceID]; !ok {
		return domain.ErrNotFound
	}
	it.ID = r.s.nextID()
	r.s.st.items[it.ID] = clone(it)
	return nil
}

func (r *invoiceRepo) GetByID(_ context.Context, id int64) (*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if inv, ok := r.s.st.invoices[id]; ok {
		return clone(inv), nil
	}
	return nil, nil
}

func (r *invoiceRepo) GetByNumber(_ context.Context, number string) (*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.st.invoices {
		if inv.Number == number {
			return clone(inv), nil
		}
	}
	return nil, nil
}

func (r *invoiceRepo) GetItems(_ context.Context, invoiceID int64) ([]*entity.InvoiceItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.InvoiceItem{}
	for _, it := range r.s.st.items {
		if it.InvoiceID == invoiceID {
			out = append(out, clone(it))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *invoiceRepo) List(_ context.Context, supplierID int64, limit int) ([]*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.Invoice{}
	for _, inv := range r.s.st.invoices {
		if supplierID == 0 || inv.SupplierID == supplierID {
			out = append(out, clone(inv))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID > out[j].ID
		}
		return out[i].Date.After(out[j].Date)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *invoiceRepo) CountBySupplier(_ context.Context, supplierID int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, inv := range r.s.st.invoices {
		if inv.SupplierID == supplierID {
			n++
		}
	}
	return n, nil
}

func (r *invoiceRepo) UpdateTotal(_ context.Context, id int64, total decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected(OpInvoiceTotal); err != nil {
		return err
	}
	inv, ok := r.s.st.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	c := clone(inv)
	c.Total = total
	r.s.st.invoices[id] = c
	return nil
}

func (r *invoiceRepo) DeleteItem(_ context.Context, itemID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.st.movements {
		if m.InvoiceItemID != nil && *m.InvoiceItemID == itemID {
			return domain.ErrInUse
		}
	}
	delete(r.s.st.items, itemID)
	return nil
}

func (r *invoiceRepo) DeleteItems(_ context.Context, invoiceID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, it := range r.s.st.items {
		if it.InvoiceID != invoiceID {
			continue
		}
		for _, m := range r.s.st.movements {
			if m.InvoiceItemID != nil && *m.InvoiceItemID == id {
				return 0, domain.ErrInUse
			}
		}
		delete(r.s.st.items, id)
		n++
	}
	return n, nil
}

func (r *invoiceRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected(OpInvoiceDelete); err != nil {
		return err
	}
	for _, it := range r.s.st.items {
		if it.InvoiceID == id {
			return domain.ErrInUse
		}
	}
	delete(r.s.st.invoices, id)
	return nil
}

// ── Objetos y secciones ──────────────────────────────────────────────────────

type siteRepo struct{ s *Store }

func (r *siteRepo) Create(_ context.Context, site *entity.ConstructionSite) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	site.ID = r.s.nextID()
	r.s.st.sites[site.ID] = clone(site)
	return nil
}

func (r *siteRepo) GetByID(_ context.Context, id int64) (*entity.ConstructionSite, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected(OpSiteGet); err != nil {
		return nil, err
	}
	if site, ok := r.s.st.sites[id]; ok {
		return clone(site), nil
	}
	return nil, nil
}

func (r *siteRepo) Update(_ context.Context, site *entity.ConstructionSite) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.sites[site.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.sites[site.ID] = clone(site)
	return nil
}

func (r *siteRepo) List(_ context.Context, status string) ([]*entity.ConstructionSite, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.ConstructionSite{}
	for _, site := range r.s.st.sites {
		if status == "" || site.Status == status {
			out = append(out, clone(site))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *siteRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sec := range r.s.st.sections {
		if sec.ConstructionSiteID == id {
			return domain.ErrInUse
		}
	}
	delete(r.s.st.sites, id)
	return nil
}

type sectionRepo struct{ s *Store }

func (r *sectionRepo) Create(_ context.Context, sec *entity.Section) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.sites[sec.ConstructionSiteID]; !ok {
		return domain.ErrNotFound
	}
	sec.ID = r.s.nextID()
	r.s.st.sections[sec.ID] = clone(sec)
	return nil
}

func (r *sectionRepo) GetByID(_ context.Context, id int64) (*entity.Section, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sec, ok := r.s.st.sections[id]; ok {
		return clone(sec), nil
	}
	return nil, nil
}

// GetForUpdate: el bloqueo lo da la serialización de transacciones del store.
func (r *sectionRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Section, error) {
	r.s.mu.Lock()
	err := r.s.injected(OpSectionForUpdate)
	r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *sectionRepo) Update(_ context.Context, sec *entity.Section) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.sections[sec.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.sections[sec.ID] = clone(sec)
	return nil
}

func (r *sectionRepo) ListBySite(_ context.Context, siteID int64) ([]*entity.Section, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.Section{}
	for _, sec := range r.s.st.sections {
		if siteID == 0 || sec.ConstructionSiteID == siteID {
			out = append(out, clone(sec))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *sectionRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.st.movements {
		if m.SectionID != nil && *m.SectionID == id {
			return domain.ErrInUse
		}
	}
	delete(r.s.st.sections, id)
	return nil
}

// ── Libro de movimientos ─────────────────────────────────────────────────────

type movementRepo struct{ s *Store }

func (r *movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected(OpMovementCreate); err != nil {
		return err
	}
	if _, ok := r.s.st.products[m.ProductID]; !ok {
		return domain.ErrNotFound
	}
	if m.SectionID != nil {
		if _, ok := r.s.st.sections[*m.SectionID]; !ok {
			return domain.ErrNotFound
		}
	}
	m.ID = r.s.nextID()
	r.s.st.movements[m.ID] = cloneMovement(m)
	return nil
}

func (r *movementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var sectionSet map[int64]bool
	if len(f.SectionIDs) > 0 {
		sectionSet = make(map[int64]bool, len(f.SectionIDs))
		for _, id := range f.SectionIDs {
			sectionSet[id] = true
		}
	}
	out := []*entity.StockMovement{}
	for _, m := range r.s.st.movements {
		if f.ProductID != nil && m.ProductID != *f.ProductID {
			continue
		}
		if f.SectionID != nil && (m.SectionID == nil || *m.SectionID != *f.SectionID) {
			continue
		}
		if sectionSet != nil && (m.SectionID == nil || !sectionSet[*m.SectionID]) {
			continue
		}
		if f.From != nil && m.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && m.Date.After(*f.To) {
			continue
		}
		out = append(out, cloneMovement(m))
	}
	desc := f.Limit > 0
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Date.Equal(b.Date) {
			if desc {
				return a.ID > b.ID
			}
			return a.ID < b.ID
		}
		if desc {
			return a.Date.After(b.Date)
		}
		return a.Date.Before(b.Date)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *movementRepo) SectionBalance(ctx context.Context, sectionID, productID int64) (decimal.Decimal, error) {
	movs, err := r.List(ctx, repository.MovementFilter{ProductID: &productID, SectionID: &sectionID})
	if err != nil {
		return decimal.Zero, err
	}
	return invdomain.CurrentStock(movs), nil
}

func (r *movementRepo) CountByProduct(_ context.Context, productID int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, m := range r.s.st.movements {
		if m.ProductID == productID {
			n++
		}
	}
	return n, nil
}

func (r *movementRepo) DeleteByDocument(_ context.Context, documentType string, documentID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected(OpMovementDelete); err != nil {
		return 0, err
	}
	var n int64
	for id, m := range r.s.st.movements {
		if m.DocumentType == documentType && m.DocumentID != nil && *m.DocumentID == documentID {
			delete(r.s.st.movements, id)
			n++
		}
	}
	return n, nil
}

func (r *movementRepo) DeleteByInvoiceItem(_ context.Context, itemID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected(OpMovementDelete); err != nil {
		return 0, err
	}
	var n int64
	for id, m := range r.s.st.movements {
		if m.InvoiceItemID != nil && *m.InvoiceItemID == itemID {
			delete(r.s.st.movements, id)
			n++
		}
	}
	return n, nil
}

// ── Usuarios ─────────────────────────────────────────────────────────────────

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.st.users {
		if other.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	u.ID = r.s.nextID()
	r.s.st.users[u.ID] = clone(u)
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.st.users[id]; ok {
		return clone(u), nil
	}
	return nil, nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.st.users {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return nil, nil
}
