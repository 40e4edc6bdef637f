package inventory

import (
	"context"

	"github.com/GukMaksim/construction-inventory/internal/domain/entity"
	invdomain "github.com/GukMaksim/construction-inventory/internal/domain/inventory"
	"github.com/GukMaksim/construction-inventory/internal/domain/repository"
	"golang.org/x/sync/errgroup"
)

// Ledger lectura del libro de movimientos junto con los catálogos necesarios para derivar saldos.
type Ledger struct {
	Products  []*entity.Product
	Movements []*entity.StockMovement
	Sections  []*entity.Section
	Sites     []*entity.ConstructionSite
}

// Index índice de secciones con el nombre de su objeto.
func (l *Ledger) Index() invdomain.SectionIndex {
	return invdomain.NewSectionIndex(l.Sections, l.Sites)
}

// ProductMap productos por ID.
func (l *Ledger) ProductMap() map[int64]*entity.Product {
	return invdomain.ProductMap(l.Products)
}

// LedgerReader carga el libro y los catálogos en paralelo.
type LedgerReader struct {
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
	sectionRepo repository.SectionRepository
	siteRepo    repository.SiteRepository
}

// NewLedgerReader construye el lector.
func NewLedgerReader(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	sectionRepo repository.SectionRepository,
	siteRepo repository.SiteRepository,
) *LedgerReader {
	return &LedgerReader{
		productRepo: productRepo,
		movRepo:     movRepo,
		sectionRepo: sectionRepo,
		siteRepo:    siteRepo,
	}
}

// Load lee productos, movimientos (según filter), secciones y objetos. El primer error cancela el resto.
func (r *LedgerReader) Load(ctx context.Context, filter repository.MovementFilter) (*Ledger, error) {
	l := &Ledger{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		l.Products, err = r.productRepo.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		l.Movements, err = r.movRepo.List(gctx, filter)
		return err
	})
	g.Go(func() (err error) {
		l.Sections, err = r.sectionRepo.ListBySite(gctx, 0)
		return err
	})
	g.Go(func() (err error) {
		l.Sites, err = r.siteRepo.List(gctx, "")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return l, nil
}
