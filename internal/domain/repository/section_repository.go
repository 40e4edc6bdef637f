package repository

import (
	"context"

	"github.com/GukMaksim/construction-inventory/internal/domain/entity"
)

// SectionRepository define el puerto de persistencia para Section (DIP).
type SectionRepository interface {
	Create(ctx context.Context, section *entity.Section) error
	GetByID(ctx context.Context, id int64) (*entity.Section, error)
	// GetForUpdate obtiene la sección y bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id int64) (*entity.Section, error)
	Update(ctx context.Context, section *entity.Section) error
	// ListBySite siteID 0 = todas las secciones.
	ListBySite(ctx context.Context, siteID int64) ([]*entity.Section, error)
	// Delete falla con domain.ErrInUse si la sección tiene movimientos.
	Delete(ctx context.Context, id int64) error
}
