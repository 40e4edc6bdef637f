package inventory

import (
	"context"
	"fmt"

	"github.com/GukMaksim/construction-inventory/internal/application/dto"
	"github.com/GukMaksim/construction-inventory/internal/domain"
	invdomain "github.com/GukMaksim/construction-inventory/internal/domain/inventory"
	"github.com/GukMaksim/construction-inventory/internal/domain/repository"
)

// recentMovementsLimit movimientos mostrados en el detalle de producto.
const recentMovementsLimit = 10

// StockUseCase consultas de saldo derivadas del libro (nunca de contadores guardados).
type StockUseCase struct {
	ledger      *LedgerReader
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(ledger *LedgerReader, productRepo repository.ProductRepository, movRepo repository.StockMovementRepository) *StockUseCase {
	return &StockUseCase{ledger: ledger, productRepo: productRepo, movRepo: movRepo}
}

// Status saldo total y por ubicación de cada producto, ordenado por código.
func (uc *StockUseCase) Status(ctx context.Context) ([]dto.StockStatusResponse, error) {
	l, err := uc.ledger.Load(ctx, repository.MovementFilter{})
	if err != nil {
		return nil, err
	}
	balances := invdomain.CalculateAll(l.Products, l.Movements, l.Index())
	out := make([]dto.StockStatusResponse, 0, len(balances))
	for i, b := range balances {
		p := l.Products[i]
		out = append(out, dto.StockStatusResponse{
			ProductID:     p.ID,
			Code:          p.Code,
			Name:          p.Name,
			Unit:          p.Unit,
			Price:         p.Price,
			MinQuantity:   p.MinQuantity,
			TotalQuantity: b.CurrentStock,
			AvgPrice:      b.AvgPrice,
			Locations:     dto.FromLocations(b.StockByLocation),
		})
	}
	return out, nil
}

// LowStock productos con saldo total <= mínimo.
func (uc *StockUseCase) LowStock(ctx context.Context) ([]dto.LowStockItemResponse, error) {
	l, err := uc.ledger.Load(ctx, repository.MovementFilter{})
	if err != nil {
		return nil, err
	}
	return LowStockResponse(invdomain.BuildLowStockReport(l.Products, l.Movements)), nil
}

// ListProducts productos con saldo y costo promedio calculados en una sola pasada.
func (uc *StockUseCase) ListProducts(ctx context.Context) ([]dto.ProductWithStockResponse, error) {
	l, err := uc.ledger.Load(ctx, repository.MovementFilter{})
	if err != nil {
		return nil, err
	}
	balances := invdomain.CalculateAll(l.Products, l.Movements, nil)
	out := make([]dto.ProductWithStockResponse, 0, len(balances))
	for i, b := range balances {
		out = append(out, dto.ProductWithStockResponse{
			ProductResponse: dto.FromProduct(l.Products[i]),
			Quantity:        b.CurrentStock,
			AvgPrice:        b.AvgPrice,
		})
	}
	return out, nil
}

// ProductDetail producto con saldo por ubicación y sus últimos movimientos.
func (uc *StockUseCase) ProductDetail(ctx context.Context, id int64) (*dto.ProductDetailResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %d: %w", id, domain.ErrNotFound)
	}
	l, err := uc.ledger.Load(ctx, repository.MovementFilter{ProductID: &id})
	if err != nil {
		return nil, err
	}
	recent, err := uc.movRepo.List(ctx, repository.MovementFilter{ProductID: &id, Limit: recentMovementsLimit})
	if err != nil {
		return nil, err
	}

	index := l.Index()
	bal := invdomain.Calculate(product, l.Movements, index)
	resp := &dto.ProductDetailResponse{
		ProductResponse: dto.FromProduct(product),
		CurrentStock:    bal.CurrentStock,
		AvgPrice:        bal.AvgPrice,
		StockByLocation: dto.FromLocations(bal.StockByLocation),
		RecentMovements: make([]dto.MovementResponse, 0, len(recent)),
	}
	for _, m := range recent {
		resp.RecentMovements = append(resp.RecentMovements, dto.FromMovement(m, product, index))
	}
	return resp, nil
}

// LowStockResponse convierte el informe de stock bajo a DTOs.
func LowStockResponse(items []invdomain.LowStockItem) []dto.LowStockItemResponse {
	out := make([]dto.LowStockItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.LowStockItemResponse{
			ProductID:    it.Product.ID,
			Code:         it.Product.Code,
			Name:         it.Product.Name,
			Unit:         it.Product.Unit,
			Price:        it.Product.Price,
			MinQuantity:  it.Product.MinQuantity,
			CurrentStock: it.CurrentStock,
			Value:        it.Value,
		})
	}
	return out
}
