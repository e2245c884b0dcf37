package document

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// ValidateOptions controla las verificaciones opcionales por tipo de
// documento y momento de la transición.
type ValidateOptions struct {
	// CheckStock activa el pre-chequeo de disponibilidad por línea (solo al
	// confirmar ventas; nunca al crear borradores). Es un rechazo temprano
	// best-effort: la garantía final sigue siendo la resta condicional.
	CheckStock bool
	// RequireExpiration exige fecha de vencimiento en líneas de productos
	// perecederos (recepciones de compra, que crean lotes nuevos).
	RequireExpiration bool
}

// Validator verifica que las líneas de un documento sean estructuralmente
// consistentes con el tracking kind de cada producto antes de intentar
// cualquier mutación de stock. Es puro de lecturas: nunca muta el libro y
// puede correr fuera de transacción.
type Validator struct {
	products repository.ProductRepository
	entries  repository.StockEntryRepository
}

// NewValidator construye el validador sobre los repos dados (pool o tx).
func NewValidator(products repository.ProductRepository, entries repository.StockEntryRepository) *Validator {
	return &Validator{products: products, entries: entries}
}

// ValidateLines valida cada línea contra el producto referenciado.
func (v *Validator) ValidateLines(ctx context.Context, lines []entity.DocumentLine, warehouseID string, opts ValidateOptions) error {
	if len(lines) == 0 {
		return domain.ErrEmptyLines
	}
	for _, line := range lines {
		product, err := v.products.GetByID(ctx, line.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}
		if product.IsVariantParent {
			return domain.ErrVariantDirectUse
		}
		if line.Quantity <= 0 {
			return domain.ErrInvalidInput
		}
		if line.UnitPrice.IsNegative() {
			return domain.ErrInvalidInput
		}

		switch product.TrackingKind {
		case entity.TrackingSerialized:
			if int64(len(line.SerialNumbers)) != line.Quantity {
				return domain.ErrSerialCountMismatch
			}
		case entity.TrackingLot:
			if line.LotCode == "" {
				return domain.ErrLotCodeRequired
			}
		case entity.TrackingExpirable:
			if opts.RequireExpiration && line.ExpirationDate == nil {
				return domain.ErrExpirationRequired
			}
		}

		if opts.CheckStock {
			total, err := v.entries.TotalQuantity(ctx, line.ProductID, warehouseID)
			if err != nil {
				return err
			}
			if total < line.Quantity {
				return domain.ErrInsufficientStock
			}
		}
	}
	return nil
}
