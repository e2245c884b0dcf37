// Package receipt implementa la máquina de estados de la recepción de
// compra: confirmar suma stock por línea y cancelar lo descuenta. La
// cancelación puede fallar con errores de stock si lo recibido ya salió por
// otra vía; eso es una falla de negocio legítima y aborta la reversa
// completa.
package receipt

import (
	"github.com/jhoicas/Kardex-api/internal/application/document"
	"github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

// UseCase ciclo de vida de recepciones de compra.
type UseCase struct {
	*document.Lifecycle
}

// NewUseCase construye el caso de uso de recepciones. Las líneas de
// productos perecederos exigen fecha de vencimiento: cada recepción crea un
// lote nuevo.
func NewUseCase(
	tx ledger.TxRunner,
	docs repository.DocumentRepository,
	products repository.ProductRepository,
	entries repository.StockEntryRepository,
	log *logger.Logger,
) *UseCase {
	return &UseCase{document.NewLifecycle(document.Config{
		Type:              entity.DocumentPurchaseReceipt,
		RequireExpiration: true,
	}, tx, docs, products, entries, log)}
}
