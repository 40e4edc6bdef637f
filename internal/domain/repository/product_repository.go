package repository

import (
	"context"

	"github.com/GukMaksim/construction-inventory/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los Get devuelven (nil, nil) cuando el registro no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// List devuelve todos los productos ordenados por código.
	List(ctx context.Context) ([]*entity.Product, error)
	// Search busca por subcadena (sin distinguir mayúsculas) en código, nombre o código de barras.
	Search(ctx context.Context, query string, limit int) ([]*entity.Product, error)
	Delete(ctx context.Context, id int64) error
}
