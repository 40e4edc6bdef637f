package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/GukMaksim/construction-inventory/internal/domain"
	"github.com/GukMaksim/construction-inventory/internal/domain/entity"
	"github.com/GukMaksim/construction-inventory/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, date, type, product_id, section_id, quantity, price, comment,
	document_id, document_type, invoice_item_id, created_by, created_at`

// StockMovementRepo libro de movimientos sobre PostgreSQL (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create agrega una entrada al libro.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (date, type, product_id, section_id, quantity, price, comment,
			document_id, document_type, invoice_item_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		m.Date, m.Type, m.ProductID, m.SectionID, m.Quantity, m.Price, m.Comment,
		m.DocumentID, m.DocumentType, m.InvoiceItemID, m.CreatedBy, m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("movimiento con referencia inexistente: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// List consulta el libro según el filtro. Sin Limit el orden es cronológico; con Limit, más recientes primero.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.ProductID != nil {
		add("product_id = $%d", *f.ProductID)
	}
	if f.SectionID != nil {
		add("section_id = $%d", *f.SectionID)
	}
	if len(f.SectionIDs) > 0 {
		add("section_id = ANY($%d)", f.SectionIDs)
	}
	if f.From != nil {
		add("date >= $%d", *f.From)
	}
	if f.To != nil {
		add("date <= $%d", *f.To)
	}

	query := `SELECT ` + movementColumns + ` FROM stock_movements`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" ORDER BY date DESC, id DESC LIMIT $%d", len(args))
	} else {
		query += " ORDER BY date, id"
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	out := []*entity.StockMovement{}
	for rows.Next() {
		var m entity.StockMovement
		err := rows.Scan(&m.ID, &m.Date, &m.Type, &m.ProductID, &m.SectionID, &m.Quantity, &m.Price, &m.Comment,
			&m.DocumentID, &m.DocumentType, &m.InvoiceItemID, &m.CreatedBy, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// SectionBalance suma con signo (IN - OUT) en la sección. Dentro de la tx del traslado,
// tras el FOR UPDATE de la sección, el valor no cambia hasta el Commit.
func (r *StockMovementRepo) SectionBalance(ctx context.Context, sectionID, productID int64) (decimal.Decimal, error) {
	var bal decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(CASE WHEN type = 'IN' THEN quantity ELSE -quantity END), 0)
		FROM stock_movements WHERE section_id = $1 AND product_id = $2`, sectionID, productID).Scan(&bal)
	if err != nil {
		return decimal.Zero, fmt.Errorf("section balance: %w", err)
	}
	return bal, nil
}

// CountByProduct número de movimientos del producto.
func (r *StockMovementRepo) CountByProduct(ctx context.Context, productID int64) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_movements WHERE product_id = $1`, productID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count stock movements: %w", err)
	}
	return n, nil
}

// DeleteByDocument borra los movimientos generados por un documento.
func (r *StockMovementRepo) DeleteByDocument(ctx context.Context, documentType string, documentID int64) (int64, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM stock_movements WHERE document_type = $1 AND document_id = $2`, documentType, documentID)
	if err != nil {
		return 0, fmt.Errorf("delete stock movements by document: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// DeleteByInvoiceItem borra el movimiento de una línea de factura.
func (r *StockMovementRepo) DeleteByInvoiceItem(ctx context.Context, itemID int64) (int64, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM stock_movements WHERE invoice_item_id = $1`, itemID)
	if err != nil {
		return 0, fmt.Errorf("delete stock movement by item: %w", err)
	}
	return cmd.RowsAffected(), nil
}
