package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// StockEntryRepository define el puerto de persistencia del libro de stock.
//
// Las operaciones de resta son condicionales atómicas (filter-then-mutate):
// la comparación de suficiencia viaja dentro del write, no en un read previo.
// Devuelven matched=false cuando ninguna entrada cumplió la condición; el
// motor traduce ese false al error de negocio del tipo de seguimiento.
// Usado dentro de transacciones (TxRunner) para garantizar atomicidad por
// documento; las lecturas (TotalQuantity, List) también funcionan fuera de
// transacción para consultas.
type StockEntryRepository interface {
	// TotalQuantity suma las cantidades de todas las entradas de (producto, bodega).
	TotalQuantity(ctx context.Context, productID, warehouseID string) (int64, error)
	// List devuelve las entradas de un producto; warehouseID vacío = todas las bodegas.
	List(ctx context.Context, productID, warehouseID string) ([]*entity.StockEntry, error)

	// AddSimple upsert atómico: suma qty a la entrada agregada de (producto,
	// bodega), creándola en qty si no existe.
	AddSimple(ctx context.Context, productID, warehouseID string, qty int64) error
	// SubtractSimple resta qty solo si la entrada agregada tiene quantity >= qty.
	SubtractSimple(ctx context.Context, productID, warehouseID string, qty int64) (matched bool, err error)

	// SerialsInUse reporta si algún serial solicitado ya existe en cualquier
	// entrada del producto (a nivel proceso, todas las bodegas).
	SerialsInUse(ctx context.Context, productID string, serials []string) (bool, error)
	// CreateEntry inserta una entrada nueva (serializada o perecedera; los
	// lotes perecederos nunca se fusionan).
	CreateEntry(ctx context.Context, entry *entity.StockEntry) error
	// RemoveBySerials elimina atómicamente una sola entrada de (producto,
	// bodega) cuyo set de seriales contenga todos los solicitados.
	RemoveBySerials(ctx context.Context, productID, warehouseID string, serials []string) (matched bool, err error)

	// AddLot upsert atómico sobre la entrada (producto, bodega, lote).
	AddLot(ctx context.Context, productID, warehouseID, lotCode string, qty int64) error
	// SubtractLot resta condicional sobre la entrada del lote (quantity >= qty).
	SubtractLot(ctx context.Context, productID, warehouseID, lotCode string, qty int64) (matched bool, err error)

	// SubtractFEFO elige la entrada perecedera con vencimiento futuro más
	// próximo (first-expire-first-out) que tenga quantity >= qty y la
	// decrementa bajo la misma condición de suficiencia.
	SubtractFEFO(ctx context.Context, productID, warehouseID string, qty int64, now time.Time) (matched bool, err error)
}
