package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/GukMaksim/construction-inventory/internal/application/analytics"
	"github.com/GukMaksim/construction-inventory/internal/application/dto"
	appinventory "github.com/GukMaksim/construction-inventory/internal/application/inventory"
	"github.com/GukMaksim/construction-inventory/internal/application/usecase"
	"github.com/GukMaksim/construction-inventory/internal/domain"
	"github.com/GukMaksim/construction-inventory/internal/domain/entity"
	"github.com/GukMaksim/construction-inventory/internal/testing/memstore"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type world struct {
	store    *memstore.Store
	site     *entity.ConstructionSite
	idle     *entity.ConstructionSite
	electric *entity.Section
	plumbing *entity.Section
	cable    *entity.Product
	pipe     *entity.Product
}

var day = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func newWorld(t *testing.T) *world {
	t.Helper()
	ctx := context.Background()
	w := &world{store: memstore.New()}

	w.site = &entity.ConstructionSite{Name: "ЖК Южный", Address: "ул. Ленина, 1", Status: entity.SiteStatusActive}
	require.NoError(t, w.store.Sites().Create(ctx, w.site))
	w.idle = &entity.ConstructionSite{Name: "Склад-ангар", Status: entity.SiteStatusSuspended}
	require.NoError(t, w.store.Sites().Create(ctx, w.idle))
	w.electric = &entity.Section{Name: "Электрика", Type: entity.SectionTypeElectrical, ConstructionSiteID: w.site.ID}
	require.NoError(t, w.store.Sections().Create(ctx, w.electric))
	w.plumbing = &entity.Section{Name: "Сантехника", Type: entity.SectionTypePlumbing, ConstructionSiteID: w.site.ID}
	require.NoError(t, w.store.Sections().Create(ctx, w.plumbing))

	w.cable = &entity.Product{Code: "CAB-01", Name: "Кабель", Unit: entity.UnitMeter, Price: d("95"), MinQuantity: d("10")}
	require.NoError(t, w.store.Products().Create(ctx, w.cable))
	w.pipe = &entity.Product{Code: "PPR-20", Name: "Труба", Unit: entity.UnitMeter, Price: d("60")}
	require.NoError(t, w.store.Products().Create(ctx, w.pipe))

	w.add(t, w.cable.ID, nil, entity.MovementTypeIN, "40", "80", day.Add(-48*time.Hour))
	w.add(t, w.cable.ID, &w.electric.ID, entity.MovementTypeIN, "10", "95", day)
	w.add(t, w.cable.ID, &w.electric.ID, entity.MovementTypeOUT, "3", "95", day.Add(time.Hour))
	w.add(t, w.pipe.ID, &w.plumbing.ID, entity.MovementTypeOUT, "2", "60", day.Add(2*time.Hour))
	return w
}

func (w *world) add(t *testing.T, productID int64, sectionID *int64, typ, qty, price string, at time.Time) {
	t.Helper()
	require.NoError(t, w.store.Movements().Create(context.Background(), &entity.StockMovement{
		Date: at, Type: typ, ProductID: productID, SectionID: sectionID,
		Quantity: d(qty), Price: d(price), DocumentType: entity.DocumentTypeTransfer,
	}))
}

func (w *world) reports(cache *analytics.Cache) *analytics.ReportUseCase {
	ledger := appinventory.NewLedgerReader(w.store.Products(), w.store.Movements(), w.store.Sections(), w.store.Sites())
	return analytics.NewReportUseCase(ledger, w.store.Sites(), w.store.Sections(), cache)
}

func TestSiteReport_ValoracionPorSeccion(t *testing.T) {
	w := newWorld(t)

	rep, err := w.reports(nil).SiteReport(context.Background(), w.site.ID)
	require.NoError(t, err)

	assert.Equal(t, "ЖК Южный", rep.SiteName)
	require.Len(t, rep.Sections, 2)

	electric := rep.Sections[0]
	assert.Equal(t, "665", electric.TotalValue.String())
	require.Len(t, electric.Products, 1)
	assert.Equal(t, "7", electric.Products[0].Quantity.String())

	// saldo negativo: resta del valor pero no se lista el producto
	plumbing := rep.Sections[1]
	assert.Equal(t, "-120", plumbing.TotalValue.String())
	assert.Empty(t, plumbing.Products)

	assert.Equal(t, "545", rep.TotalValue.String())
}

func TestSiteReport_Inexistente(t *testing.T) {
	w := newWorld(t)
	_, err := w.reports(nil).SiteReport(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMovementsReport_Periodo(t *testing.T) {
	w := newWorld(t)
	uc := w.reports(nil)
	ctx := context.Background()

	rep, err := uc.MovementsReport(ctx, dto.MovementsReportQuery{StartDate: "2024-03-10", EndDate: "2024-03-10"})
	require.NoError(t, err)
	require.Len(t, rep.Products, 2)

	cable := rep.Products[0]
	assert.Equal(t, "CAB-01", cable.Code)
	assert.Equal(t, "10", cable.TotalIn.String())
	assert.Equal(t, "3", cable.TotalOut.String())
	require.Len(t, cable.Movements, 2)
	require.NotNil(t, cable.Movements[0].Section)
	assert.Equal(t, "ЖК Южный", cable.Movements[0].Section.SiteName)

	all, err := uc.MovementsReport(ctx, dto.MovementsReportQuery{})
	require.NoError(t, err)
	assert.Len(t, all.Products[0].Movements, 3)
	assert.Nil(t, all.Products[0].Movements[0].Section, "la entrada al almacén no tiene sección")
	assert.Nil(t, all.StartDate)
}

func TestMovementsReport_FechasInvalidas(t *testing.T) {
	uc := newWorld(t).reports(nil)
	ctx := context.Background()

	_, err := uc.MovementsReport(ctx, dto.MovementsReportQuery{StartDate: "ayer"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.MovementsReport(ctx, dto.MovementsReportQuery{StartDate: "2024-03-11", EndDate: "2024-03-10"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSummary_SoloObjetosActivos(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	sec := &entity.Section{Name: "Отделка", Type: entity.SectionTypeFinishing, ConstructionSiteID: w.idle.ID}
	require.NoError(t, w.store.Sections().Create(ctx, sec))
	w.add(t, w.pipe.ID, &sec.ID, entity.MovementTypeIN, "5", "60", day)

	sum, err := w.reports(nil).Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.TotalSites)
	assert.Equal(t, 2, sum.ActiveSections)
	assert.Equal(t, "545", sum.SitesValue.String())
}

func TestReports_CacheHastaInvalidar(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := analytics.NewCache(client, time.Minute)
	uc := w.reports(cache)

	first, err := uc.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "PPR-20", first[0].Code)

	// escritura directa sin invalidar: se sigue sirviendo la versión cacheada
	w.add(t, w.pipe.ID, nil, entity.MovementTypeIN, "100", "60", day)
	cached, err := uc.LowStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	require.NoError(t, cache.Invalidate(ctx))
	fresh, err := uc.LowStock(ctx)
	require.NoError(t, err)
	assert.Empty(t, fresh)
}

func TestReports_CacheSeInvalidaConCambiosDeCatalogo(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := analytics.NewCache(client, time.Minute)
	uc := w.reports(cache)

	first, err := uc.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// cable tiene 47 en stock: con mínimo 100 pasa a stock bajo
	products := usecase.NewProductUseCase(w.store.Products(), w.store.Movements()).WithCache(cache)
	minimum := d("100")
	_, err = products.Update(ctx, w.cable.ID, dto.UpdateProductRequest{MinQuantity: &minimum})
	require.NoError(t, err)

	cached, err := uc.LowStock(ctx)
	require.NoError(t, err)
	fresh, err := w.reports(nil).LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, fresh, 2)
	assert.Equal(t, fresh, cached)

	sum, err := uc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.TotalSites)

	sites := usecase.NewSiteUseCase(w.store.Sites(), w.store.Sections()).WithCache(cache)
	active := entity.SiteStatusActive
	_, err = sites.Update(ctx, w.idle.ID, dto.UpdateSiteRequest{Status: &active})
	require.NoError(t, err)

	sum, err = uc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.TotalSites)

	sections := usecase.NewSectionUseCase(w.store.Sections(), w.store.Sites()).WithCache(cache)
	_, err = sections.Create(ctx, dto.CreateSectionRequest{Name: "Отделка", ConstructionSiteID: w.idle.ID})
	require.NoError(t, err)

	sum, err = uc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.ActiveSections)
}
