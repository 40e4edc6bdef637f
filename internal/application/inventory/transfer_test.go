package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/GukMaksim/construction-inventory/internal/application/dto"
	"github.com/GukMaksim/construction-inventory/internal/application/inventory"
	"github.com/GukMaksim/construction-inventory/internal/domain"
	"github.com/GukMaksim/construction-inventory/internal/domain/entity"
	"github.com/GukMaksim/construction-inventory/internal/domain/repository"
	"github.com/GukMaksim/construction-inventory/internal/testing/memstore"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ inventory.TxRunner = (*memstore.Store)(nil)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type seed struct {
	store   *memstore.Store
	site    *entity.ConstructionSite
	section *entity.Section
	other   *entity.Section
	product *entity.Product
}

func newSeed(t *testing.T) *seed {
	t.Helper()
	ctx := context.Background()
	s := &seed{store: memstore.New()}

	s.site = &entity.ConstructionSite{Name: "ЖК Южный", Address: "ул. Ленина, 1", Status: entity.SiteStatusActive}
	require.NoError(t, s.store.Sites().Create(ctx, s.site))
	s.section = &entity.Section{Name: "Электрика", Type: entity.SectionTypeElectrical, ConstructionSiteID: s.site.ID}
	require.NoError(t, s.store.Sections().Create(ctx, s.section))
	s.other = &entity.Section{Name: "Сантехника", Type: entity.SectionTypePlumbing, ConstructionSiteID: s.site.ID}
	require.NoError(t, s.store.Sections().Create(ctx, s.other))
	s.product = &entity.Product{Code: "CAB-01", Name: "Кабель", Unit: entity.UnitMeter, Price: d("95"), MinQuantity: d("10")}
	require.NoError(t, s.store.Products().Create(ctx, s.product))
	return s
}

type countingCache struct {
	mu sync.Mutex
	n  int
}

func (c *countingCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return nil
}

func (s *seed) transfer(typ, qty string) dto.TransferRequest {
	return dto.TransferRequest{ProductID: s.product.ID, SectionID: s.section.ID, Quantity: d(qty), Type: typ}
}

func TestTransfer_SecuenciaDeSaldo(t *testing.T) {
	s := newSeed(t)
	ctx := context.Background()
	cache := &countingCache{}
	clock := time.Date(2024, 3, 20, 9, 30, 0, 0, time.UTC)
	uc := inventory.NewTransferUseCase(s.store, s.store.Sites(), cache).WithClock(func() time.Time { return clock })

	// el almacén está vacío: una entrega a la sección no lo verifica
	resp, err := uc.Transfer(ctx, 3, s.transfer(entity.MovementTypeIN, "50"))
	require.NoError(t, err)
	assert.Equal(t, "Электрика", resp.SectionName)
	assert.Equal(t, "ЖК Южный", resp.SiteName)
	assert.Equal(t, entity.DocumentTypeTransfer, resp.DocumentType)
	assert.Equal(t, "95", resp.Price.String(), "el traslado toma el precio de lista")
	assert.Equal(t, clock, resp.Date)
	assert.Equal(t, int64(3), resp.CreatedBy)
	assert.Nil(t, resp.DocumentID)

	_, err = uc.Transfer(ctx, 3, s.transfer(entity.MovementTypeOUT, "20"))
	require.NoError(t, err)

	_, err = uc.Transfer(ctx, 3, s.transfer(entity.MovementTypeOUT, "40"))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "disponible 30")

	_, err = uc.Transfer(ctx, 3, s.transfer(entity.MovementTypeOUT, "30"))
	require.NoError(t, err)

	bal, err := s.store.Movements().SectionBalance(ctx, s.section.ID, s.product.ID)
	require.NoError(t, err)
	assert.True(t, bal.IsZero())
	assert.Equal(t, 3, s.store.MovementCount())
	assert.Equal(t, 3, cache.n)
}

func TestTransfer_SaldoEsPorSeccion(t *testing.T) {
	s := newSeed(t)
	ctx := context.Background()
	uc := inventory.NewTransferUseCase(s.store, s.store.Sites(), nil)

	_, err := uc.Transfer(ctx, 1, s.transfer(entity.MovementTypeIN, "15"))
	require.NoError(t, err)

	req := s.transfer(entity.MovementTypeOUT, "1")
	req.SectionID = s.other.ID
	_, err = uc.Transfer(ctx, 1, req)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestTransfer_Validaciones(t *testing.T) {
	s := newSeed(t)
	ctx := context.Background()
	uc := inventory.NewTransferUseCase(s.store, s.store.Sites(), nil)

	cases := map[string]struct {
		mutate func(r *dto.TransferRequest)
		want   error
	}{
		"cantidad cero":        {func(r *dto.TransferRequest) { r.Quantity = decimal.Zero }, domain.ErrInvalidInput},
		"cantidad negativa":    {func(r *dto.TransferRequest) { r.Quantity = d("-5") }, domain.ErrInvalidInput},
		"cuatro decimales":     {func(r *dto.TransferRequest) { r.Quantity = d("0.0004") }, domain.ErrInvalidInput},
		"tipo desconocido":     {func(r *dto.TransferRequest) { r.Type = "MOVE" }, domain.ErrInvalidInput},
		"sin sección":          {func(r *dto.TransferRequest) { r.SectionID = 0 }, domain.ErrInvalidInput},
		"producto inexistente": {func(r *dto.TransferRequest) { r.ProductID = 999 }, domain.ErrNotFound},
		"sección inexistente":  {func(r *dto.TransferRequest) { r.SectionID = 999 }, domain.ErrNotFound},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := s.transfer(entity.MovementTypeIN, "5")
			tc.mutate(&req)
			_, err := uc.Transfer(ctx, 1, req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Zero(t, s.store.MovementCount())
}

func TestTransfer_FalloDelBloqueoNoEscribe(t *testing.T) {
	s := newSeed(t)
	s.store.FailOn(memstore.OpSectionForUpdate, errors.New("lock timeout"))
	uc := inventory.NewTransferUseCase(s.store, s.store.Sites(), nil)

	_, err := uc.Transfer(context.Background(), 1, s.transfer(entity.MovementTypeIN, "5"))
	require.Error(t, err)
	assert.Zero(t, s.store.MovementCount())
}

func TestTransfer_SalidasConcurrentesNoDejanSaldoNegativo(t *testing.T) {
	s := newSeed(t)
	ctx := context.Background()
	uc := inventory.NewTransferUseCase(s.store, s.store.Sites(), nil)
	_, err := uc.Transfer(ctx, 1, s.transfer(entity.MovementTypeIN, "30"))
	require.NoError(t, err)

	const workers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, fail int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Transfer(ctx, 1, s.transfer(entity.MovementTypeOUT, "20"))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, domain.ErrInsufficientStock) {
				fail++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, fail)
	bal, err := s.store.Movements().SectionBalance(ctx, s.section.ID, s.product.ID)
	require.NoError(t, err)
	assert.Equal(t, "10", bal.String())
}

func TestTransfer_AlmacenPuedeQuedarNegativo(t *testing.T) {
	s := newSeed(t)
	ctx := context.Background()
	// salida del almacén registrada manualmente (p. ej. importación de datos históricos)
	require.NoError(t, s.store.Movements().Create(ctx, &entity.StockMovement{
		Date: time.Now(), Type: entity.MovementTypeOUT, ProductID: s.product.ID,
		Quantity: d("4"), Price: d("95"), DocumentType: entity.DocumentTypeTransfer,
	}))

	ledger := inventory.NewLedgerReader(s.store.Products(), s.store.Movements(), s.store.Sections(), s.store.Sites())
	status, err := inventory.NewStockUseCase(ledger, s.store.Products(), s.store.Movements()).Status(ctx)
	require.NoError(t, err)
	require.Len(t, status, 1)
	assert.Equal(t, "-4", status[0].TotalQuantity.String())
	require.Len(t, status[0].Locations, 1)
	assert.Equal(t, "warehouse", status[0].Locations[0].Key)

	movs, err := s.store.Movements().List(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Len(t, movs, 1)
}

func TestTransfer_FalloAlLeerObjetoNoEscribe(t *testing.T) {
	s := newSeed(t)
	s.store.FailOn(memstore.OpSiteGet, errors.New("conexión perdida"))
	uc := inventory.NewTransferUseCase(s.store, s.store.Sites(), nil)

	_, err := uc.Transfer(context.Background(), 1, s.transfer(entity.MovementTypeIN, "5"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, s.store.MovementCount())
}
