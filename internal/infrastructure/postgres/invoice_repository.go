package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/GukMaksim/construction-inventory/internal/domain"
	"github.com/GukMaksim/construction-inventory/internal/domain/entity"
	"github.com/GukMaksim/construction-inventory/internal/domain/repository"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `id, number, date, supplier_id, total, created_at, updated_at`

// InvoiceRepo persistencia de facturas de proveedor y sus líneas. Pasar pool o tx (Querier).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador.
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	if err := row.Scan(&inv.ID, &inv.Number, &inv.Date, &inv.SupplierID, &inv.Total, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
		return nil, err
	}
	return &inv, nil
}

// Create persiste la cabecera. Número repetido => domain.ErrDuplicateInvoiceNumber.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (number, date, supplier_id, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		invoice.Number, invoice.Date, invoice.SupplierID, invoice.Total, invoice.CreatedAt, invoice.UpdatedAt,
	).Scan(&invoice.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateInvoiceNumber
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("proveedor %d: %w", invoice.SupplierID, domain.ErrNotFound)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItem persiste una línea.
func (r *InvoiceRepo) CreateItem(ctx context.Context, item *entity.InvoiceItem) error {
	query := `
		INSERT INTO invoice_items (invoice_id, product_id, quantity, price, total)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.q.QueryRow(ctx, query, item.InvoiceID, item.ProductID, item.Quantity, item.Price, item.Total).Scan(&item.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("producto %d: %w", item.ProductID, domain.ErrNotFound)
		}
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una factura.
func (r *InvoiceRepo) GetByID(ctx context.Context, id int64) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetByNumber obtiene una factura por número.
func (r *InvoiceRepo) GetByNumber(ctx context.Context, number string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE number = $1`, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice by number: %w", err)
	}
	return inv, nil
}

// GetItems líneas de la factura en orden de alta.
func (r *InvoiceRepo) GetItems(ctx context.Context, invoiceID int64) ([]*entity.InvoiceItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, invoice_id, product_id, quantity, price, total
		FROM invoice_items WHERE invoice_id = $1 ORDER BY id`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	out := []*entity.InvoiceItem{}
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.ProductID, &it.Quantity, &it.Price, &it.Total); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

// List ordena por fecha descendente. supplierID 0 = todos; limit 0 = sin límite.
func (r *InvoiceRepo) List(ctx context.Context, supplierID int64, limit int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices`
	args := []any{}
	if supplierID > 0 {
		args = append(args, supplierID)
		query += fmt.Sprintf(" WHERE supplier_id = $%d", len(args))
	}
	query += " ORDER BY date DESC, id DESC"
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	out := []*entity.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// CountBySupplier número de facturas del proveedor.
func (r *InvoiceRepo) CountBySupplier(ctx context.Context, supplierID int64) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM invoices WHERE supplier_id = $1`, supplierID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	return n, nil
}

// UpdateTotal reemplaza el total de la cabecera.
func (r *InvoiceRepo) UpdateTotal(ctx context.Context, id int64, total decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx, `UPDATE invoices SET total = $2, updated_at = now() WHERE id = $1`, id, total)
	if err != nil {
		return fmt.Errorf("update invoice total: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("factura %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// DeleteItem borra una línea. Si su movimiento sigue vivo devuelve domain.ErrInUse.
func (r *InvoiceRepo) DeleteItem(ctx context.Context, itemID int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM invoice_items WHERE id = $1`, itemID); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInUse
		}
		return fmt.Errorf("delete invoice item: %w", err)
	}
	return nil
}

// DeleteItems borra todas las líneas de la factura; devuelve cuántas.
func (r *InvoiceRepo) DeleteItems(ctx context.Context, invoiceID int64) (int64, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, invoiceID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, domain.ErrInUse
		}
		return 0, fmt.Errorf("delete invoice items: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// Delete borra la cabecera (las líneas deben haberse borrado antes).
func (r *InvoiceRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInUse
		}
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}
