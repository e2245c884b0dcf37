package ledger

import (
	"context"
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// Line es la porción de una línea de documento que el motor necesita para
// mutar stock. Los campos discriminantes aplican según el tracking kind.
type Line struct {
	ProductID      string
	WarehouseID    string
	Quantity       int64
	SerialNumbers  []string
	LotCode        string
	ExpirationDate *time.Time
}

// Engine es el motor del libro de stock: despacha cada mutación a la
// estrategia del tracking kind del producto. No abre transacciones propias:
// opera sobre los repositorios que recibe, de modo que Increase/Decrease se
// ejecutan dentro de la unidad de trabajo del caller y una falla en la línea
// N revierte las líneas 1..N-1 del mismo documento.
type Engine struct {
	products repository.ProductRepository
	entries  repository.StockEntryRepository
}

// NewEngine construye el motor sobre los repos dados (pool o tx).
func NewEngine(products repository.ProductRepository, entries repository.StockEntryRepository) *Engine {
	return &Engine{products: products, entries: entries}
}

// Increase suma stock según el tracking kind del producto.
func (e *Engine) Increase(ctx context.Context, line Line) error {
	product, err := e.lookupProduct(ctx, line.ProductID)
	if err != nil {
		return err
	}
	switch product.TrackingKind {
	case entity.TrackingSimple:
		return e.increaseSimple(ctx, line)
	case entity.TrackingSerialized:
		return e.increaseSerialized(ctx, line)
	case entity.TrackingLot:
		return e.increaseLot(ctx, line)
	case entity.TrackingExpirable:
		return e.increaseExpirable(ctx, line)
	default:
		// VARIANT o un kind desconocido: no hay estrategia que aplicar.
		return domain.ErrInvalidTrackingKind
	}
}

// Decrease resta stock según el tracking kind del producto.
func (e *Engine) Decrease(ctx context.Context, line Line) error {
	product, err := e.lookupProduct(ctx, line.ProductID)
	if err != nil {
		return err
	}
	switch product.TrackingKind {
	case entity.TrackingSimple:
		return e.decreaseSimple(ctx, line)
	case entity.TrackingSerialized:
		return e.decreaseSerialized(ctx, line)
	case entity.TrackingLot:
		return e.decreaseLot(ctx, line)
	case entity.TrackingExpirable:
		return e.decreaseExpirable(ctx, line)
	default:
		return domain.ErrInvalidTrackingKind
	}
}

// Availability reporta si la suma de entradas de (producto, bodega) alcanza
// qty. Es un pre-chequeo consultivo, no una reserva: bajo concurrencia el
// stock puede cambiar entre el chequeo y la mutación; la garantía real la da
// la resta condicional atómica de cada estrategia.
func (e *Engine) Availability(ctx context.Context, productID, warehouseID string, qty int64) (bool, error) {
	total, err := e.entries.TotalQuantity(ctx, productID, warehouseID)
	if err != nil {
		return false, err
	}
	return total >= qty, nil
}

// Query devuelve las entradas de stock de un producto (warehouseID vacío =
// todas las bodegas). Acceso de lectura para el colaborador de reportes.
func (e *Engine) Query(ctx context.Context, productID, warehouseID string) ([]*entity.StockEntry, error) {
	return e.entries.List(ctx, productID, warehouseID)
}

func (e *Engine) lookupProduct(ctx context.Context, id string) (*entity.Product, error) {
	product, err := e.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}
