package repository

import (
	"context"

	"github.com/GukMaksim/construction-inventory/internal/domain/entity"
)

// SiteRepository define el puerto de persistencia para ConstructionSite (DIP).
type SiteRepository interface {
	Create(ctx context.Context, site *entity.ConstructionSite) error
	GetByID(ctx context.Context, id int64) (*entity.ConstructionSite, error)
	Update(ctx context.Context, site *entity.ConstructionSite) error
	// List filtra por estado; status vacío = todos.
	List(ctx context.Context, status string) ([]*entity.ConstructionSite, error)
	// Delete falla con domain.ErrInUse si el objeto tiene secciones.
	Delete(ctx context.Context, id int64) error
}
