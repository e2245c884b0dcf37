package dto

import (
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU             string `json:"sku" validate:"required,min=1,max=100"`
	Name            string `json:"name" validate:"required,min=1,max=200"`
	Description     string `json:"description"`
	TrackingKind    string `json:"tracking_kind" validate:"required"`
	IsVariantParent bool   `json:"is_variant_parent"`
	ParentID        string `json:"parent_id"`
	UnitMeasure     string `json:"unit_measure"`
}

// UpdateProductRequest entrada para actualizar un producto.
// El tipo de seguimiento es inmutable: no se expone aquí.
type UpdateProductRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	UnitMeasure *string `json:"unit_measure"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID              string    `json:"id"`
	SKU             string    `json:"sku"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	TrackingKind    string    `json:"tracking_kind"`
	IsVariantParent bool      `json:"is_variant_parent"`
	ParentID        string    `json:"parent_id,omitempty"`
	UnitMeasure     string    `json:"unit_measure"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ToProductResponse mapea la entidad al DTO de salida.
func ToProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:              p.ID,
		SKU:             p.SKU,
		Name:            p.Name,
		Description:     p.Description,
		TrackingKind:    string(p.TrackingKind),
		IsVariantParent: p.IsVariantParent,
		ParentID:        p.ParentID,
		UnitMeasure:     p.UnitMeasure,
		Active:          p.Active,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
