package repository

import (
	"context"

	"github.com/GukMaksim/construction-inventory/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
type InvoiceRepository interface {
	// Create asigna ID; número repetido => domain.ErrDuplicateInvoiceNumber.
	Create(ctx context.Context, invoice *entity.Invoice) error
	CreateItem(ctx context.Context, item *entity.InvoiceItem) error
	GetByID(ctx context.Context, id int64) (*entity.Invoice, error)
	GetByNumber(ctx context.Context, number string) (*entity.Invoice, error)
	GetItems(ctx context.Context, invoiceID int64) ([]*entity.InvoiceItem, error)
	// List ordena por fecha descendente. supplierID 0 = todos; limit 0 = sin límite.
	List(ctx context.Context, supplierID int64, limit int) ([]*entity.Invoice, error)
	CountBySupplier(ctx context.Context, supplierID int64) (int, error)
	UpdateTotal(ctx context.Context, id int64, total decimal.Decimal) error
	DeleteItem(ctx context.Context, itemID int64) error
	DeleteItems(ctx context.Context, invoiceID int64) (int64, error)
	Delete(ctx context.Context, id int64) error
}
