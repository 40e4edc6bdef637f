package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GukMaksim/construction-inventory/internal/application/dto"
	"github.com/GukMaksim/construction-inventory/internal/application/usecase"
	"github.com/GukMaksim/construction-inventory/internal/domain"
	"github.com/GukMaksim/construction-inventory/internal/domain/entity"
	"github.com/GukMaksim/construction-inventory/internal/testing/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Proveedores ──────────────────────────────────────────────────────────────

func TestSupplierUseCase_CRUD(t *testing.T) {
	store := memstore.New()
	uc := usecase.NewSupplierUseCase(store.Suppliers(), store.Invoices())
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateSupplierRequest{Name: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	b, err := uc.Create(ctx, dto.CreateSupplierRequest{Name: "Петрович", Phone: "+7 900 000-00-00"})
	require.NoError(t, err)
	a, err := uc.Create(ctx, dto.CreateSupplierRequest{Name: "Леруа", Email: "b2b@leroy.ru"})
	require.NoError(t, err)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID, "orden por nombre")

	upd, err := uc.Update(ctx, b.ID, dto.UpdateSupplierRequest{ContactPerson: strPtr("Иван")})
	require.NoError(t, err)
	assert.Equal(t, "Иван", upd.ContactPerson)
	assert.Equal(t, "+7 900 000-00-00", upd.Phone)

	detail, err := uc.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.Invoices)

	require.NoError(t, uc.Delete(ctx, b.ID))
	_, err = uc.GetByID(ctx, b.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSupplierUseCase_DeleteConFacturas(t *testing.T) {
	store := memstore.New()
	uc := usecase.NewSupplierUseCase(store.Suppliers(), store.Invoices())
	ctx := context.Background()

	s, err := uc.Create(ctx, dto.CreateSupplierRequest{Name: "Петрович"})
	require.NoError(t, err)
	require.NoError(t, store.Invoices().Create(ctx, &entity.Invoice{
		Number: "INV-1", Date: time.Now(), SupplierID: s.ID, Total: d("10"),
	}))

	detail, err := uc.GetByID(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, detail.Invoices, 1)
	assert.Equal(t, "Петрович", detail.Invoices[0].SupplierName)

	assert.ErrorIs(t, uc.Delete(ctx, s.ID), domain.ErrInUse)
}

// ── Objetos y secciones ──────────────────────────────────────────────────────

func TestSiteUseCase_EstadoPorDefectoYFiltro(t *testing.T) {
	store := memstore.New()
	uc := usecase.NewSiteUseCase(store.Sites(), store.Sections())
	ctx := context.Background()

	a, err := uc.Create(ctx, dto.CreateSiteRequest{Name: "ЖК Южный"})
	require.NoError(t, err)
	assert.Equal(t, entity.SiteStatusActive, a.Status)
	assert.Empty(t, a.Sections)

	_, err = uc.Create(ctx, dto.CreateSiteRequest{Name: "Коттедж", Status: entity.SiteStatusCompleted})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateSiteRequest{Name: "X", Status: "ARCHIVED"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	active, err := uc.List(ctx, entity.SiteStatusActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, a.ID, active[0].ID)

	all, err := uc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = uc.List(ctx, "ARCHIVED")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	status := entity.SiteStatusSuspended
	upd, err := uc.Update(ctx, a.ID, dto.UpdateSiteRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, entity.SiteStatusSuspended, upd.Status)
}

func TestSectionUseCase_CicloDeVida(t *testing.T) {
	store := memstore.New()
	sites := usecase.NewSiteUseCase(store.Sites(), store.Sections())
	uc := usecase.NewSectionUseCase(store.Sections(), store.Sites())
	ctx := context.Background()

	site, err := sites.Create(ctx, dto.CreateSiteRequest{Name: "ЖК Южный"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, dto.CreateSectionRequest{Name: "Электрика", ConstructionSiteID: 999})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	sec, err := uc.Create(ctx, dto.CreateSectionRequest{Name: "Электрика", ConstructionSiteID: site.ID})
	require.NoError(t, err)
	assert.Equal(t, entity.SectionTypeGeneral, sec.Type)
	assert.Equal(t, "ЖК Южный", sec.SiteName)

	typ := entity.SectionTypeElectrical
	upd, err := uc.Update(ctx, sec.ID, dto.UpdateSectionRequest{Type: &typ})
	require.NoError(t, err)
	assert.Equal(t, entity.SectionTypeElectrical, upd.Type)

	list, err := uc.ListBySite(ctx, site.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = uc.ListBySite(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	withSections, err := sites.GetByID(ctx, site.ID)
	require.NoError(t, err)
	require.Len(t, withSections.Sections, 1)

	// un objeto con secciones no se borra
	assert.ErrorIs(t, sites.Delete(ctx, site.ID), domain.ErrInUse)

	require.NoError(t, store.Movements().Create(ctx, &entity.StockMovement{
		Date: time.Now(), Type: entity.MovementTypeIN, ProductID: mustProduct(t, store), SectionID: &sec.ID,
		Quantity: d("1"), Price: d("1"), DocumentType: entity.DocumentTypeTransfer,
	}))
	assert.ErrorIs(t, uc.Delete(ctx, sec.ID), domain.ErrInUse)
}

func TestSectionUseCase_DeleteSinMovimientos(t *testing.T) {
	store := memstore.New()
	sites := usecase.NewSiteUseCase(store.Sites(), store.Sections())
	uc := usecase.NewSectionUseCase(store.Sections(), store.Sites())
	ctx := context.Background()

	site, err := sites.Create(ctx, dto.CreateSiteRequest{Name: "Коттедж"})
	require.NoError(t, err)
	sec, err := uc.Create(ctx, dto.CreateSectionRequest{Name: "Отделка", Type: entity.SectionTypeFinishing, ConstructionSiteID: site.ID})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, sec.ID))
	require.NoError(t, sites.Delete(ctx, site.ID))
	_, err = sites.GetByID(ctx, site.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func mustProduct(t *testing.T, store *memstore.Store) int64 {
	t.Helper()
	p := &entity.Product{Code: "ANY", Name: "Любой", Unit: entity.UnitPiece, Price: d("1")}
	require.NoError(t, store.Products().Create(context.Background(), p))
	return p.ID
}

func TestSectionUseCase_FalloAlLeerObjetoSePropaga(t *testing.T) {
	store := memstore.New()
	sites := usecase.NewSiteUseCase(store.Sites(), store.Sections())
	uc := usecase.NewSectionUseCase(store.Sections(), store.Sites())
	ctx := context.Background()

	site, err := sites.Create(ctx, dto.CreateSiteRequest{Name: "ЖК Южный"})
	require.NoError(t, err)
	sec, err := uc.Create(ctx, dto.CreateSectionRequest{Name: "Электрика", ConstructionSiteID: site.ID})
	require.NoError(t, err)

	store.FailOn(memstore.OpSiteGet, errors.New("conexión perdida"))
	_, err = uc.GetByID(ctx, sec.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conexión perdida")
}

// ── Invalidación de informes ─────────────────────────────────────────────────

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(context.Context) error {
	c.calls++
	return nil
}

func TestCatalogo_InvalidaInformesTrasCadaCambio(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	inv := &countingInvalidator{}
	products := usecase.NewProductUseCase(store.Products(), store.Movements()).WithCache(inv)
	sites := usecase.NewSiteUseCase(store.Sites(), store.Sections()).WithCache(inv)
	sections := usecase.NewSectionUseCase(store.Sections(), store.Sites()).WithCache(inv)

	p, err := products.Create(ctx, cableRequest())
	require.NoError(t, err)
	price := d("99.90")
	_, err = products.Update(ctx, p.ID, dto.UpdateProductRequest{Price: &price})
	require.NoError(t, err)
	require.NoError(t, products.Delete(ctx, p.ID))
	assert.Equal(t, 3, inv.calls)

	site, err := sites.Create(ctx, dto.CreateSiteRequest{Name: "ЖК Южный"})
	require.NoError(t, err)
	status := entity.SiteStatusCompleted
	_, err = sites.Update(ctx, site.ID, dto.UpdateSiteRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, 5, inv.calls)

	sec, err := sections.Create(ctx, dto.CreateSectionRequest{Name: "Электрика", ConstructionSiteID: site.ID})
	require.NoError(t, err)
	name := "Электрика 2"
	_, err = sections.Update(ctx, sec.ID, dto.UpdateSectionRequest{Name: &name})
	require.NoError(t, err)
	require.NoError(t, sections.Delete(ctx, sec.ID))
	require.NoError(t, sites.Delete(ctx, site.ID))
	assert.Equal(t, 9, inv.calls)

	// los cambios rechazados no invalidan
	_, err = products.Create(ctx, dto.CreateProductRequest{Code: "X", Name: "X", Unit: "BARREL"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, sites.Delete(ctx, 999), domain.ErrNotFound)
	assert.Equal(t, 9, inv.calls)
}
