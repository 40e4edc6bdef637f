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

var _ repository.SectionRepository = (*SectionRepo)(nil)

const sectionColumns = `id, name, type, construction_site_id, created_at, updated_at`

// SectionRepo persistencia de secciones de obra.
type SectionRepo struct {
	q Querier
}

// NewSectionRepository construye el adaptador. Acepta pool o tx (Querier).
func NewSectionRepository(q Querier) *SectionRepo {
	return &SectionRepo{q: q}
}

func scanSection(row pgx.Row) (*entity.Section, error) {
	var s entity.Section
	if err := row.Scan(&s.ID, &s.Name, &s.Type, &s.ConstructionSiteID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SectionRepo) Create(ctx context.Context, section *entity.Section) error {
	query := `
		INSERT INTO sections (name, type, construction_site_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		section.Name, section.Type, section.ConstructionSiteID, section.CreatedAt, section.UpdatedAt,
	).Scan(&section.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("objeto %d: %w", section.ConstructionSiteID, domain.ErrNotFound)
		}
		return fmt.Errorf("insert section: %w", err)
	}
	return nil
}

func (r *SectionRepo) GetByID(ctx context.Context, id int64) (*entity.Section, error) {
	return r.get(ctx, `SELECT `+sectionColumns+` FROM sections WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila de la sección hasta el fin de la transacción. Solo tiene sentido sobre una tx.
func (r *SectionRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Section, error) {
	return r.get(ctx, `SELECT `+sectionColumns+` FROM sections WHERE id = $1 FOR UPDATE`, id)
}

func (r *SectionRepo) get(ctx context.Context, query string, id int64) (*entity.Section, error) {
	s, err := scanSection(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get section: %w", err)
	}
	return s, nil
}

func (r *SectionRepo) Update(ctx context.Context, section *entity.Section) error {
	cmd, err := r.q.Exec(ctx, `UPDATE sections SET name = $2, type = $3, updated_at = $4 WHERE id = $1`,
		section.ID, section.Name, section.Type, section.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update section: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("sección %d: %w", section.ID, domain.ErrNotFound)
	}
	return nil
}

// ListBySite siteID 0 = todas las secciones.
func (r *SectionRepo) ListBySite(ctx context.Context, siteID int64) ([]*entity.Section, error) {
	query := `SELECT ` + sectionColumns + ` FROM sections`
	args := []any{}
	if siteID > 0 {
		query += ` WHERE construction_site_id = $1`
		args = append(args, siteID)
	}
	query += ` ORDER BY id`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()
	out := []*entity.Section{}
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SectionRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM sections WHERE id = $1`, id); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInUse
		}
		return fmt.Errorf("delete section: %w", err)
	}
	return nil
}
