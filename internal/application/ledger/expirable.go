package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// Estrategia EXPIRABLE: cada recepción crea una entrada nueva (dos
// recepciones del mismo producto pueden vencer en fechas distintas, así que
// los lotes nunca se fusionan). La baja no recibe fecha del caller: elige
// sola por first-expire-first-out entre las entradas vigentes con cantidad
// suficiente.

func (e *Engine) increaseExpirable(ctx context.Context, line Line) error {
	if line.ExpirationDate == nil {
		return domain.ErrExpirationRequired
	}
	now := time.Now()
	exp := *line.ExpirationDate
	return e.entries.CreateEntry(ctx, &entity.StockEntry{
		ID:             uuid.New().String(),
		ProductID:      line.ProductID,
		WarehouseID:    line.WarehouseID,
		Quantity:       line.Quantity,
		ExpirationDate: &exp,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

func (e *Engine) decreaseExpirable(ctx context.Context, line Line) error {
	matched, err := e.entries.SubtractFEFO(ctx, line.ProductID, line.WarehouseID, line.Quantity, time.Now())
	if err != nil {
		return err
	}
	if !matched {
		// Incluye el caso en que los únicos lotes suficientes ya vencieron.
		return domain.ErrNoSuitableBatch
	}
	return nil
}
