// Package catalog administra el maestro de productos. El motor de stock y
// los documentos lo consumen solo en lectura a través del puerto
// ProductRepository.
package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// UseCase operaciones CRUD del catálogo.
type UseCase struct {
	products repository.ProductRepository
}

// NewUseCase construye el caso de uso del catálogo.
func NewUseCase(products repository.ProductRepository) *UseCase {
	return &UseCase{products: products}
}

// CreateInput datos para crear un producto.
type CreateInput struct {
	SKU             string
	Name            string
	Description     string
	TrackingKind    entity.TrackingKind
	IsVariantParent bool
	ParentID        string
	UnitMeasure     string
}

// Create valida y persiste un producto nuevo. El SKU es único: la violación
// se devuelve como ErrDuplicate.
func (uc *UseCase) Create(ctx context.Context, in CreateInput) (*entity.Product, error) {
	if in.SKU == "" || in.Name == "" || !in.TrackingKind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	// Un padre de variantes no es almacenable: su kind debe ser VARIANT, y
	// solo los padres llevan ese kind.
	if in.IsVariantParent != (in.TrackingKind == entity.TrackingVariant) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:              uuid.New().String(),
		SKU:             in.SKU,
		Name:            in.Name,
		Description:     in.Description,
		TrackingKind:    in.TrackingKind,
		IsVariantParent: in.IsVariantParent,
		ParentID:        in.ParentID,
		UnitMeasure:     in.UnitMeasure,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Get devuelve un producto por ID.
func (uc *UseCase) Get(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}

// List lista productos con filtros y paginación.
func (uc *UseCase) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return uc.products.List(ctx, filter)
}

// UpdateInput campos editables del producto. El tracking kind no se cambia
// después de creado: las entradas de stock existentes dependen de él.
type UpdateInput struct {
	Name        string
	Description string
	UnitMeasure string
}

// Update modifica los campos editables.
func (uc *UseCase) Update(ctx context.Context, id string, in UpdateInput) (*entity.Product, error) {
	product, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		product.Name = in.Name
	}
	if in.Description != "" {
		product.Description = in.Description
	}
	if in.UnitMeasure != "" {
		product.UnitMeasure = in.UnitMeasure
	}
	product.UpdatedAt = time.Now()
	if err := uc.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete desactiva el producto (soft delete: el historial de documentos y
// stock lo sigue referenciando).
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.Get(ctx, id); err != nil {
		return err
	}
	return uc.products.SoftDelete(ctx, id)
}
