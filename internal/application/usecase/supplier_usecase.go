package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/GukMaksim/construction-inventory/internal/application/dto"
	"github.com/GukMaksim/construction-inventory/internal/domain"
	"github.com/GukMaksim/construction-inventory/internal/domain/entity"
	"github.com/GukMaksim/construction-inventory/internal/domain/repository"
)

// supplierRecentInvoices facturas mostradas en el detalle del proveedor.
const supplierRecentInvoices = 10

// SupplierUseCase casos de uso CRUD para proveedores.
type SupplierUseCase struct {
	repo        repository.SupplierRepository
	invoiceRepo repository.InvoiceRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository, invoiceRepo repository.InvoiceRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo, invoiceRepo: invoiceRepo}
}

// Create crea un nuevo proveedor.
func (uc *SupplierUseCase) Create(ctx context.Context, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	now := time.Now()
	supplier := &entity.Supplier{
		Name:          name,
		ContactPerson: in.ContactPerson,
		Phone:         in.Phone,
		Email:         in.Email,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	resp := dto.FromSupplier(supplier)
	return &resp, nil
}

// GetByID obtiene un proveedor con sus últimas facturas.
func (uc *SupplierUseCase) GetByID(ctx context.Context, id int64) (*dto.SupplierDetailResponse, error) {
	supplier, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	invoices, err := uc.invoiceRepo.List(ctx, id, supplierRecentInvoices)
	if err != nil {
		return nil, err
	}
	resp := &dto.SupplierDetailResponse{
		SupplierResponse: dto.FromSupplier(supplier),
		Invoices:         make([]dto.InvoiceResponse, 0, len(invoices)),
	}
	for _, inv := range invoices {
		resp.Invoices = append(resp.Invoices, dto.FromInvoice(inv, supplier.Name))
	}
	return resp, nil
}

// Update actualiza un proveedor.
func (uc *SupplierUseCase) Update(ctx context.Context, id int64, in dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	supplier, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
		}
		supplier.Name = name
	}
	if in.ContactPerson != nil {
		supplier.ContactPerson = *in.ContactPerson
	}
	if in.Phone != nil {
		supplier.Phone = *in.Phone
	}
	if in.Email != nil {
		supplier.Email = *in.Email
	}
	supplier.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	resp := dto.FromSupplier(supplier)
	return &resp, nil
}

// List lista proveedores por nombre.
func (uc *SupplierUseCase) List(ctx context.Context) ([]dto.SupplierResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.FromSupplier(s))
	}
	return out, nil
}

// Delete elimina un proveedor sin facturas.
func (uc *SupplierUseCase) Delete(ctx context.Context, id int64) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	n, err := uc.invoiceRepo.CountBySupplier(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("proveedor %d con %d facturas: %w", id, n, domain.ErrInUse)
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *SupplierUseCase) get(ctx context.Context, id int64) (*entity.Supplier, error) {
	supplier, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, fmt.Errorf("proveedor %d: %w", id, domain.ErrNotFound)
	}
	return supplier, nil
}
