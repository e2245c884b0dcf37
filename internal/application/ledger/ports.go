package ledger

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Es la unidad de trabajo atómica del motor:
// o todas las mutaciones de stock y el cambio de estado del documento se
// confirman juntos, o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		entries repository.StockEntryRepository,
		docs repository.DocumentRepository,
		products repository.ProductRepository,
	) error) error
}
