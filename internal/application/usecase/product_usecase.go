package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/GukMaksim/construction-inventory/internal/application/dto"
	"github.com/GukMaksim/construction-inventory/internal/application/ports"
	"github.com/GukMaksim/construction-inventory/internal/domain"
	"github.com/GukMaksim/construction-inventory/internal/domain/entity"
	"github.com/GukMaksim/construction-inventory/internal/domain/repository"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// defaultSearchLimit resultados máximos de la búsqueda de productos.
const defaultSearchLimit = 50

// ProductUseCase casos de uso CRUD para productos. El saldo se deriva del libro de movimientos.
type ProductUseCase struct {
	repo    repository.ProductRepository
	movRepo repository.StockMovementRepository
	cache   ports.CacheInvalidator
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, movRepo repository.StockMovementRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, movRepo: movRepo}
}

// WithCache invalida los informes cacheados tras cada cambio de catálogo (precio y mínimo los alimentan).
func (uc *ProductUseCase) WithCache(cache ports.CacheInvalidator) *ProductUseCase {
	uc.cache = cache
	return uc
}

// Create crea un nuevo producto. El código es único.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	now := time.Now()
	product := &entity.Product{
		Code:        normalize(in.Code),
		Name:        normalize(in.Name),
		Barcode:     strings.TrimSpace(in.Barcode),
		Unit:        in.Unit,
		Price:       in.Price,
		MinQuantity: in.MinQuantity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByCode(ctx, product.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateProductCode
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	invalidateReports(ctx, uc.cache)
	resp := dto.FromProduct(product)
	return &resp, nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.FromProduct(product)
	return &resp, nil
}

// Update actualiza un producto. Cambiar el código valida unicidad.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Code != nil {
		code := normalize(*in.Code)
		if code != product.Code {
			existing, err := uc.repo.GetByCode(ctx, code)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != product.ID {
				return nil, domain.ErrDuplicateProductCode
			}
		}
		product.Code = code
	}
	if in.Name != nil {
		product.Name = normalize(*in.Name)
	}
	if in.Barcode != nil {
		product.Barcode = strings.TrimSpace(*in.Barcode)
	}
	if in.Unit != nil {
		product.Unit = *in.Unit
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.MinQuantity != nil {
		product.MinQuantity = *in.MinQuantity
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	invalidateReports(ctx, uc.cache)
	resp := dto.FromProduct(product)
	return &resp, nil
}

// Upsert crea el producto o, si el código ya existe, actualiza sus datos (importación de catálogo).
// created indica si se creó.
func (uc *ProductUseCase) Upsert(ctx context.Context, in dto.CreateProductRequest) (resp *dto.ProductResponse, created bool, err error) {
	existing, err := uc.repo.GetByCode(ctx, normalize(in.Code))
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		resp, err = uc.Create(ctx, in)
		return resp, err == nil, err
	}
	resp, err = uc.Update(ctx, existing.ID, dto.UpdateProductRequest{
		Name:        &in.Name,
		Barcode:     &in.Barcode,
		Unit:        &in.Unit,
		Price:       &in.Price,
		MinQuantity: &in.MinQuantity,
	})
	return resp, false, err
}

// Search busca por código, nombre o código de barras.
func (uc *ProductUseCase) Search(ctx context.Context, query string) ([]dto.ProductResponse, error) {
	query = normalize(query)
	if query == "" {
		return nil, fmt.Errorf("%w: el parámetro query es obligatorio", domain.ErrInvalidInput)
	}
	list, err := uc.repo.Search(ctx, query, defaultSearchLimit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.FromProduct(p))
	}
	return out, nil
}

// Delete elimina un producto sin movimientos.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	n, err := uc.movRepo.CountByProduct(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("producto %d con %d movimientos: %w", id, n, domain.ErrInUse)
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	invalidateReports(ctx, uc.cache)
	return nil
}

func (uc *ProductUseCase) get(ctx context.Context, id int64) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %d: %w", id, domain.ErrNotFound)
	}
	return product, nil
}

func validateProduct(p *entity.Product) error {
	if p.Code == "" || p.Name == "" {
		return fmt.Errorf("%w: código y nombre son obligatorios", domain.ErrInvalidInput)
	}
	if !entity.IsValidUnit(p.Unit) {
		return fmt.Errorf("%w: unidad %q no admitida", domain.ErrInvalidInput, p.Unit)
	}
	if p.Price.LessThan(decimal.Zero) || p.MinQuantity.LessThan(decimal.Zero) {
		return fmt.Errorf("%w: precio y mínimo no pueden ser negativos", domain.ErrInvalidInput)
	}
	if !entity.FitsScale(p.Price, entity.PriceScale) || !entity.FitsScale(p.MinQuantity, entity.QuantityScale) {
		return fmt.Errorf("%w: el precio admite %d decimales y el mínimo %d", domain.ErrInvalidInput, entity.PriceScale, entity.QuantityScale)
	}
	return nil
}

func invalidateReports(ctx context.Context, cache ports.CacheInvalidator) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("no se pudo invalidar la caché de informes")
	}
}

// normalize recorta espacios y normaliza a NFC (códigos tecleados o importados de CSV).
func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
