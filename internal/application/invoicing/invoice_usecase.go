package invoicing

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
)

// InvoiceUseCase registra facturas de compra: cada línea ingresa al almacén como movimiento IN en la misma transacción.
type InvoiceUseCase struct {
	txRunner     TxRunner
	invoiceRepo  repository.InvoiceRepository
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
	cache        ports.CacheInvalidator
	policy       TotalPolicy
	now          func() time.Time
}

// NewInvoiceUseCase construye el caso de uso. cache puede ser nil.
func NewInvoiceUseCase(
	txRunner TxRunner,
	invoiceRepo repository.InvoiceRepository,
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
	cache ports.CacheInvalidator,
	policy TotalPolicy,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:     txRunner,
		invoiceRepo:  invoiceRepo,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		cache:        cache,
		policy:       policy,
		now:          time.Now,
	}
}

type preparedItem struct {
	product  *entity.Product
	quantity decimal.Decimal
	price    decimal.Decimal
	total    decimal.Decimal
}

// CreateInvoice valida la factura y persiste cabecera, líneas y un movimiento IN (almacén) por línea.
// Todo o nada: cualquier fallo hace rollback.
func (uc *InvoiceUseCase) CreateInvoice(ctx context.Context, userID int64, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	number := strings.TrimSpace(in.Number)
	if number == "" {
		return nil, fmt.Errorf("%w: el número de factura es obligatorio", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la factura debe tener al menos una línea", domain.ErrInvalidInput)
	}
	date, _, err := dto.ParseDate(in.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha inválida %q", domain.ErrInvalidInput, in.Date)
	}

	// Validar líneas y productos (fuera de la tx, solo lectura)
	items := make([]preparedItem, 0, len(in.Items))
	invoiceTotal := decimal.Zero
	for i, it := range in.Items {
		if it.ProductID <= 0 {
			return nil, fmt.Errorf("%w: línea %d sin producto", domain.ErrInvalidInput, i+1)
		}
		if !it.Quantity.GreaterThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: línea %d cantidad debe ser mayor que 0", domain.ErrInvalidInput, i+1)
		}
		if it.Price.LessThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: línea %d precio negativo", domain.ErrInvalidInput, i+1)
		}
		if !entity.FitsScale(it.Quantity, entity.QuantityScale) || !entity.FitsScale(it.Price, entity.PriceScale) {
			return nil, fmt.Errorf("%w: línea %d admite %d decimales en cantidad y %d en precio",
				domain.ErrInvalidInput, i+1, entity.QuantityScale, entity.PriceScale)
		}
		product, err := uc.productRepo.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("%w: línea %d producto %d no existe", domain.ErrInvalidInput, i+1, it.ProductID)
		}
		total := it.Quantity.Mul(it.Price).Round(2)
		if it.Total != nil && !it.Total.Round(2).Equal(total) {
			if uc.policy == TotalPolicyStrict {
				return nil, fmt.Errorf("%w: línea %d total %s no coincide con %s", domain.ErrInvalidInput, i+1, it.Total.String(), total.StringFixed(2))
			}
			log.Warn().
				Str("invoice", number).
				Int("line", i+1).
				Str("client_total", it.Total.String()).
				Str("computed_total", total.StringFixed(2)).
				Msg("total de línea no coincide; se usa el recalculado")
		}
		items = append(items, preparedItem{product: product, quantity: it.Quantity, price: it.Price, total: total})
		invoiceTotal = invoiceTotal.Add(total)
	}

	supplier, err := uc.supplierRepo.GetByID(ctx, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, fmt.Errorf("proveedor %d: %w", in.SupplierID, domain.ErrNotFound)
	}
	existing, err := uc.invoiceRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateInvoiceNumber
	}

	now := uc.now()
	inv := &entity.Invoice{
		Number:     number,
		Date:       date,
		SupplierID: supplier.ID,
		Total:      invoiceTotal,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	var created []*entity.InvoiceItem

	err = uc.txRunner.RunInvoice(ctx, func(invoiceRepo repository.InvoiceRepository, movRepo repository.StockMovementRepository) error {
		created = created[:0]
		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return err
		}
		invoiceID := inv.ID
		for _, p := range items {
			item := &entity.InvoiceItem{
				InvoiceID: invoiceID,
				ProductID: p.product.ID,
				Quantity:  p.quantity,
				Price:     p.price,
				Total:     p.total,
			}
			if err := invoiceRepo.CreateItem(ctx, item); err != nil {
				return err
			}
			itemID := item.ID
			mov := &entity.StockMovement{
				Date:          date,
				Type:          entity.MovementTypeIN,
				ProductID:     p.product.ID,
				Quantity:      p.quantity,
				Price:         p.price,
				Comment:       "Factura " + number,
				DocumentID:    &invoiceID,
				DocumentType:  entity.DocumentTypeInvoice,
				InvoiceItemID: &itemID,
				CreatedBy:     userID,
				CreatedAt:     now,
			}
			if err := movRepo.Create(ctx, mov); err != nil {
				return err
			}
			created = append(created, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx)

	resp := dto.FromInvoice(inv, supplier.Name)
	resp.Items = make([]dto.InvoiceItemResponse, 0, len(created))
	for i, it := range created {
		resp.Items = append(resp.Items, dto.FromInvoiceItem(it, items[i].product))
	}
	return &resp, nil
}

// DeleteInvoice borra en una transacción los movimientos generados por la factura, sus líneas y la cabecera.
func (uc *InvoiceUseCase) DeleteInvoice(ctx context.Context, id int64) (*dto.DeleteInvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("factura %d: %w", id, domain.ErrNotFound)
	}

	res := &dto.DeleteInvoiceResponse{ID: id}
	err = uc.txRunner.RunInvoice(ctx, func(invoiceRepo repository.InvoiceRepository, movRepo repository.StockMovementRepository) error {
		n, err := movRepo.DeleteByDocument(ctx, entity.DocumentTypeInvoice, id)
		if err != nil {
			return err
		}
		res.DeletedMovements = n
		if res.DeletedItems, err = invoiceRepo.DeleteItems(ctx, id); err != nil {
			return err
		}
		return invoiceRepo.Delete(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx)
	return res, nil
}

// DeleteInvoiceItem borra una línea, su movimiento y recalcula el total de la cabecera.
// No se permite borrar la última línea: para eso se borra la factura.
func (uc *InvoiceUseCase) DeleteInvoiceItem(ctx context.Context, invoiceID, itemID int64) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("factura %d: %w", invoiceID, domain.ErrNotFound)
	}
	items, err := uc.invoiceRepo.GetItems(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	found := false
	newTotal := decimal.Zero
	for _, it := range items {
		if it.ID == itemID {
			found = true
			continue
		}
		newTotal = newTotal.Add(it.Total)
	}
	if !found {
		return nil, fmt.Errorf("línea %d de la factura %d: %w", itemID, invoiceID, domain.ErrNotFound)
	}
	if len(items) == 1 {
		return nil, fmt.Errorf("%w: no se puede borrar la única línea de la factura", domain.ErrInvalidInput)
	}

	err = uc.txRunner.RunInvoice(ctx, func(invoiceRepo repository.InvoiceRepository, movRepo repository.StockMovementRepository) error {
		if _, err := movRepo.DeleteByInvoiceItem(ctx, itemID); err != nil {
			return err
		}
		if err := invoiceRepo.DeleteItem(ctx, itemID); err != nil {
			return err
		}
		return invoiceRepo.UpdateTotal(ctx, invoiceID, newTotal)
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx)
	return uc.GetInvoice(ctx, invoiceID)
}

// GetInvoice obtiene una factura con proveedor y líneas.
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, id int64) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("factura %d: %w", id, domain.ErrNotFound)
	}
	items, err := uc.invoiceRepo.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	supplier, err := uc.supplierRepo.GetByID(ctx, inv.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("proveedor de la factura %d: %w", id, err)
	}
	supplierName := ""
	if supplier != nil {
		supplierName = supplier.Name
	}

	resp := dto.FromInvoice(inv, supplierName)
	resp.Items = make([]dto.InvoiceItemResponse, 0, len(items))
	for _, it := range items {
		product, err := uc.productRepo.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		resp.Items = append(resp.Items, dto.FromInvoiceItem(it, product))
	}
	return &resp, nil
}

// ListInvoices lista facturas por fecha descendente. supplierID 0 = todas.
func (uc *InvoiceUseCase) ListInvoices(ctx context.Context, supplierID int64) ([]dto.InvoiceResponse, error) {
	list, err := uc.invoiceRepo.List(ctx, supplierID, 0)
	if err != nil {
		return nil, err
	}
	suppliers, err := uc.supplierRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(suppliers))
	for _, s := range suppliers {
		names[s.ID] = s.Name
	}
	out := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, dto.FromInvoice(inv, names[inv.SupplierID]))
	}
	return out, nil
}

func (uc *InvoiceUseCase) invalidate(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("no se pudo invalidar la caché de informes")
	}
}
