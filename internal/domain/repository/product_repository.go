package repository

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// ProductFilter filtros para listado de productos.
type ProductFilter struct {
	TrackingKind entity.TrackingKind // vacío = todos
	OnlyActive   bool
	Search       string // SKU o nombre, substring case-insensitive
	Limit        int
	Offset       int
}

// ProductRepository define el puerto de persistencia para el catálogo (DIP).
// GetByID devuelve (nil, nil) si el producto no existe; el caso de uso decide
// el error de negocio.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error // ErrDuplicate si el SKU ya existe
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	SoftDelete(ctx context.Context, id string) error
}
