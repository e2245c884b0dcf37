package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// Estrategia SERIALIZED: cada alta crea una entrada con exactamente el set
// de seriales recibido; la baja elimina una entrada completa cuyo set
// contenga todos los seriales pedidos. Un pedido repartido entre dos
// entradas no se resuelve: es ErrSerialsNotFound (contención en una sola
// entrada).

func (e *Engine) increaseSerialized(ctx context.Context, line Line) error {
	if int64(len(line.SerialNumbers)) != line.Quantity {
		return domain.ErrSerialCountMismatch
	}
	inUse, err := e.entries.SerialsInUse(ctx, line.ProductID, line.SerialNumbers)
	if err != nil {
		return err
	}
	if inUse {
		return domain.ErrDuplicateSerial
	}
	now := time.Now()
	return e.entries.CreateEntry(ctx, &entity.StockEntry{
		ID:            uuid.New().String(),
		ProductID:     line.ProductID,
		WarehouseID:   line.WarehouseID,
		Quantity:      line.Quantity,
		SerialNumbers: line.SerialNumbers,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
}

func (e *Engine) decreaseSerialized(ctx context.Context, line Line) error {
	if int64(len(line.SerialNumbers)) != line.Quantity {
		return domain.ErrSerialCountMismatch
	}
	matched, err := e.entries.RemoveBySerials(ctx, line.ProductID, line.WarehouseID, line.SerialNumbers)
	if err != nil {
		return err
	}
	if !matched {
		return domain.ErrSerialsNotFound
	}
	return nil
}
