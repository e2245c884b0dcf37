// Package sales implementa la máquina de estados del documento de venta:
// confirmar descuenta stock por línea (con pre-chequeo de disponibilidad) y
// cancelar lo repone.
package sales

import (
	"github.com/jhoicas/Kardex-api/internal/application/document"
	"github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

// UseCase ciclo de vida de ventas.
type UseCase struct {
	*document.Lifecycle
}

// NewUseCase construye el caso de uso de ventas. El pre-chequeo de stock al
// confirmar es consultivo; la resta condicional atómica es la que garantiza
// que nunca se venda más de lo disponible.
func NewUseCase(
	tx ledger.TxRunner,
	docs repository.DocumentRepository,
	products repository.ProductRepository,
	entries repository.StockEntryRepository,
	log *logger.Logger,
) *UseCase {
	return &UseCase{document.NewLifecycle(document.Config{
		Type:                entity.DocumentSales,
		ConfirmDecreases:    true,
		CheckStockOnConfirm: true,
	}, tx, docs, products, entries, log)}
}
