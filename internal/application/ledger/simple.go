package ledger

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain"
)

// Estrategia SIMPLE: una sola entrada agregada por (producto, bodega),
// upsert en el alta y resta condicional en la baja. La condición
// quantity >= qty viaja dentro del write: dos restas concurrentes no pueden
// pasar ambas el chequeo de suficiencia.

func (e *Engine) increaseSimple(ctx context.Context, line Line) error {
	return e.entries.AddSimple(ctx, line.ProductID, line.WarehouseID, line.Quantity)
}

func (e *Engine) decreaseSimple(ctx context.Context, line Line) error {
	matched, err := e.entries.SubtractSimple(ctx, line.ProductID, line.WarehouseID, line.Quantity)
	if err != nil {
		return err
	}
	if !matched {
		// Entrada ausente o insuficiente: mismo resultado para el caller.
		return domain.ErrInsufficientStock
	}
	return nil
}
