package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// DocumentFilter filtros para listado de documentos.
type DocumentFilter struct {
	Type           entity.DocumentType // obligatorio: SALES o PURCHASE_RECEIPT
	Status         entity.DocumentStatus
	WarehouseID    string
	CounterpartyID string
	From, To       *time.Time // rango sobre document_date
	Limit          int
	Offset         int
}

// StatusChange datos de auditoría de una transición de estado.
type StatusChange struct {
	ActorID string
	At      time.Time
	Reason  string // solo cancelación
}

// DocumentRepository define el puerto de persistencia para documentos
// (ventas y recepciones de compra) con sus líneas.
//
// Las mutaciones que dependen del estado son condicionales: devuelven
// matched=false si el documento no estaba en el estado esperado, lo que el
// caso de uso traduce a ErrInvalidTransition. Esto cierra la ventana de
// carrera entre dos confirmaciones concurrentes del mismo documento.
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	GetByID(ctx context.Context, id string) (*entity.Document, error) // (nil, nil) si no existe
	List(ctx context.Context, filter DocumentFilter) ([]*entity.Document, error)

	// ReplaceDraft reemplaza cabecera y líneas solo si el documento sigue en DRAFT.
	ReplaceDraft(ctx context.Context, doc *entity.Document) (matched bool, err error)
	// DeleteDraft elimina el documento solo si sigue en DRAFT.
	DeleteDraft(ctx context.Context, id string) (matched bool, err error)
	// SetStatus cambia el estado solo si el actual es `from`, registrando auditoría.
	SetStatus(ctx context.Context, id string, from, to entity.DocumentStatus, change StatusChange) (matched bool, err error)
}
