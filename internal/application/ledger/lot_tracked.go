package ledger

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain"
)

// Estrategia LOT_TRACKED: igual que SIMPLE pero la entrada se discrimina por
// (producto, bodega, lote). Pueden coexistir varias entradas del mismo
// producto en la misma bodega, una por lote.

func (e *Engine) increaseLot(ctx context.Context, line Line) error {
	if line.LotCode == "" {
		return domain.ErrLotCodeRequired
	}
	return e.entries.AddLot(ctx, line.ProductID, line.WarehouseID, line.LotCode, line.Quantity)
}

func (e *Engine) decreaseLot(ctx context.Context, line Line) error {
	if line.LotCode == "" {
		return domain.ErrLotCodeRequired
	}
	matched, err := e.entries.SubtractLot(ctx, line.ProductID, line.WarehouseID, line.LotCode, line.Quantity)
	if err != nil {
		return err
	}
	if !matched {
		return domain.ErrInsufficientLotStock
	}
	return nil
}
