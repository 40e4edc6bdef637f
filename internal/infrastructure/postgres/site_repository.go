package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/GukMaksim/construction-inventory/internal/domain"
	"github.com/GukMaksim/construction-inventory/internal/domain/entity"
	"github.com/GukMaksim/construction-inventory/internal/domain/repository"
	"github.com/jackc/pgx/v5"
)

var _ repository.SiteRepository = (*SiteRepo)(nil)

const siteColumns = `id, name, address, status, created_at, updated_at`

// SiteRepo persistencia de objetos de construcción.
type SiteRepo struct {
	q Querier
}

// NewSiteRepository construye el adaptador. Acepta pool o tx (Querier).
func NewSiteRepository(q Querier) *SiteRepo {
	return &SiteRepo{q: q}
}

func scanSite(row pgx.Row) (*entity.ConstructionSite, error) {
	var s entity.ConstructionSite
	if err := row.Scan(&s.ID, &s.Name, &s.Address, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SiteRepo) Create(ctx context.Context, site *entity.ConstructionSite) error {
	query := `
		INSERT INTO construction_sites (name, address, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := r.q.QueryRow(ctx, query, site.Name, site.Address, site.Status, site.CreatedAt, site.UpdatedAt).Scan(&site.ID); err != nil {
		return fmt.Errorf("insert site: %w", err)
	}
	return nil
}

func (r *SiteRepo) GetByID(ctx context.Context, id int64) (*entity.ConstructionSite, error) {
	s, err := scanSite(r.q.QueryRow(ctx, `SELECT `+siteColumns+` FROM construction_sites WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get site: %w", err)
	}
	return s, nil
}

func (r *SiteRepo) Update(ctx context.Context, site *entity.ConstructionSite) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE construction_sites SET name = $2, address = $3, status = $4, updated_at = $5
		WHERE id = $1`, site.ID, site.Name, site.Address, site.Status, site.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update site: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("objeto %d: %w", site.ID, domain.ErrNotFound)
	}
	return nil
}

// List filtra por estado; status vacío = todos.
func (r *SiteRepo) List(ctx context.Context, status string) ([]*entity.ConstructionSite, error) {
	query := `SELECT ` + siteColumns + ` FROM construction_sites`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY id`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	defer rows.Close()
	out := []*entity.ConstructionSite{}
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan site: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SiteRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM construction_sites WHERE id = $1`, id); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInUse
		}
		return fmt.Errorf("delete site: %w", err)
	}
	return nil
}
