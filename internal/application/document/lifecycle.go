package document

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

// Config parametriza la máquina de estados para los dos tipos de documento.
// Ventas: confirmar descuenta stock (con pre-chequeo de disponibilidad) y
// cancelar lo repone. Recepciones: confirmar suma stock y cancelar lo
// descuenta (la reversa puede fallar legítimamente si el stock ya salió).
type Config struct {
	Type                entity.DocumentType
	ConfirmDecreases    bool
	CheckStockOnConfirm bool
	RequireExpiration   bool
}

// CreateInput datos de cabecera y líneas para crear o reemplazar un borrador.
type CreateInput struct {
	CounterpartyID string
	WarehouseID    string
	DocumentDate   time.Time
	Currency       string
	Lines          []entity.DocumentLine
}

// Lifecycle es la máquina de estados DRAFT -> CONFIRMED -> CANCELLED de un
// documento. Cada transición que toca el libro de stock corre dentro de una
// unidad de trabajo: el cambio de estado solo se confirma junto con todas
// las mutaciones de líneas, y cualquier falla deja el documento como estaba.
type Lifecycle struct {
	cfg      Config
	tx       ledger.TxRunner
	docs     repository.DocumentRepository
	products repository.ProductRepository
	entries  repository.StockEntryRepository
	log      *logger.Logger
}

// NewLifecycle construye la máquina de estados. docs/products/entries son
// repos atados al pool (lecturas y operaciones de un solo statement); las
// transiciones multi-write usan tx.
func NewLifecycle(
	cfg Config,
	tx ledger.TxRunner,
	docs repository.DocumentRepository,
	products repository.ProductRepository,
	entries repository.StockEntryRepository,
	log *logger.Logger,
) *Lifecycle {
	return &Lifecycle{cfg: cfg, tx: tx, docs: docs, products: products, entries: entries, log: log}
}

// Create valida las líneas y persiste el documento en DRAFT. No toca el
// libro de stock.
func (l *Lifecycle) Create(ctx context.Context, actorID string, in CreateInput) (*entity.Document, error) {
	if actorID == "" || in.WarehouseID == "" || in.CounterpartyID == "" {
		return nil, domain.ErrInvalidInput
	}
	validator := NewValidator(l.products, l.entries)
	if err := validator.ValidateLines(ctx, in.Lines, in.WarehouseID, ValidateOptions{
		RequireExpiration: l.cfg.RequireExpiration,
	}); err != nil {
		return nil, err
	}

	now := time.Now()
	docDate := in.DocumentDate
	if docDate.IsZero() {
		docDate = now
	}
	doc := &entity.Document{
		ID:             uuid.New().String(),
		Type:           l.cfg.Type,
		CounterpartyID: in.CounterpartyID,
		WarehouseID:    in.WarehouseID,
		DocumentDate:   docDate,
		Currency:       in.Currency,
		Status:         entity.StatusDraft,
		Lines:          in.Lines,
		CreatedBy:      actorID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	// Cabecera + líneas en una transacción.
	err := l.tx.Run(ctx, func(_ repository.StockEntryRepository, docs repository.DocumentRepository, _ repository.ProductRepository) error {
		return docs.Create(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Update reemplaza cabecera y líneas mientras el documento siga en DRAFT.
func (l *Lifecycle) Update(ctx context.Context, id string, in CreateInput) (*entity.Document, error) {
	doc, err := l.getOwn(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.Status != entity.StatusDraft {
		return nil, domain.ErrInvalidTransition
	}

	if in.CounterpartyID != "" {
		doc.CounterpartyID = in.CounterpartyID
	}
	if in.WarehouseID != "" {
		doc.WarehouseID = in.WarehouseID
	}
	if !in.DocumentDate.IsZero() {
		doc.DocumentDate = in.DocumentDate
	}
	if in.Currency != "" {
		doc.Currency = in.Currency
	}
	if in.Lines != nil {
		doc.Lines = in.Lines
	}
	doc.UpdatedAt = time.Now()

	validator := NewValidator(l.products, l.entries)
	if err := validator.ValidateLines(ctx, doc.Lines, doc.WarehouseID, ValidateOptions{
		RequireExpiration: l.cfg.RequireExpiration,
	}); err != nil {
		return nil, err
	}

	err = l.tx.Run(ctx, func(_ repository.StockEntryRepository, docs repository.DocumentRepository, _ repository.ProductRepository) error {
		matched, err := docs.ReplaceDraft(ctx, doc)
		if err != nil {
			return err
		}
		if !matched {
			// Dejó de ser DRAFT entre la lectura y el write.
			return domain.ErrInvalidTransition
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Confirm ejecuta la transición DRAFT -> CONFIRMED: revalida líneas, aplica
// el efecto de stock por línea y cambia el estado, todo en una unidad de
// trabajo. Una falla en cualquier línea aborta el conjunto.
func (l *Lifecycle) Confirm(ctx context.Context, actorID, id string) (*entity.Document, error) {
	if actorID == "" {
		return nil, domain.ErrInvalidInput
	}
	var confirmed *entity.Document
	err := l.tx.Run(ctx, func(entries repository.StockEntryRepository, docs repository.DocumentRepository, products repository.ProductRepository) error {
		doc, err := docs.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil || doc.Type != l.cfg.Type {
			return domain.ErrNotFound
		}
		if doc.Status != entity.StatusDraft {
			return domain.ErrInvalidTransition
		}

		validator := NewValidator(products, entries)
		if err := validator.ValidateLines(ctx, doc.Lines, doc.WarehouseID, ValidateOptions{
			CheckStock:        l.cfg.CheckStockOnConfirm,
			RequireExpiration: l.cfg.RequireExpiration,
		}); err != nil {
			return err
		}

		engine := ledger.NewEngine(products, entries)
		for _, line := range doc.Lines {
			ll := toLedgerLine(line, doc.WarehouseID)
			if l.cfg.ConfirmDecreases {
				err = engine.Decrease(ctx, ll)
			} else {
				err = engine.Increase(ctx, ll)
			}
			if err != nil {
				return err
			}
		}

		now := time.Now()
		matched, err := docs.SetStatus(ctx, id, entity.StatusDraft, entity.StatusConfirmed, repository.StatusChange{
			ActorID: actorID,
			At:      now,
		})
		if err != nil {
			return err
		}
		if !matched {
			return domain.ErrInvalidTransition
		}
		doc.Status = entity.StatusConfirmed
		doc.ConfirmedBy = actorID
		doc.ConfirmedAt = &now
		confirmed = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.log.Info().
		Str("document_id", id).
		Str("type", string(l.cfg.Type)).
		Str("actor", actorID).
		Msg("documento confirmado")
	return confirmed, nil
}

// Cancel ejecuta la transición CONFIRMED -> CANCELLED aplicando el efecto
// inverso por línea. La reversa también es todo-o-nada: si una línea no
// puede revertirse (p.ej. el stock recibido ya se vendió), la cancelación
// completa aborta en lugar de dejar stock negativo o reversa parcial.
func (l *Lifecycle) Cancel(ctx context.Context, actorID, id, reason string) (*entity.Document, error) {
	if actorID == "" {
		return nil, domain.ErrInvalidInput
	}
	if strings.TrimSpace(reason) == "" {
		return nil, domain.ErrReasonRequired
	}
	var cancelled *entity.Document
	err := l.tx.Run(ctx, func(entries repository.StockEntryRepository, docs repository.DocumentRepository, products repository.ProductRepository) error {
		doc, err := docs.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil || doc.Type != l.cfg.Type {
			return domain.ErrNotFound
		}
		if doc.Status != entity.StatusConfirmed {
			return domain.ErrInvalidTransition
		}

		engine := ledger.NewEngine(products, entries)
		for _, line := range doc.Lines {
			ll := toLedgerLine(line, doc.WarehouseID)
			if l.cfg.ConfirmDecreases {
				err = engine.Increase(ctx, ll) // reponer lo vendido
			} else {
				err = engine.Decrease(ctx, ll) // revertir lo recibido
			}
			if err != nil {
				return err
			}
		}

		now := time.Now()
		matched, err := docs.SetStatus(ctx, id, entity.StatusConfirmed, entity.StatusCancelled, repository.StatusChange{
			ActorID: actorID,
			At:      now,
			Reason:  reason,
		})
		if err != nil {
			return err
		}
		if !matched {
			return domain.ErrInvalidTransition
		}
		doc.Status = entity.StatusCancelled
		doc.CancelledBy = actorID
		doc.CancelledAt = &now
		doc.CancellationReason = reason
		cancelled = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.log.Info().
		Str("document_id", id).
		Str("type", string(l.cfg.Type)).
		Str("actor", actorID).
		Str("reason", reason).
		Msg("documento cancelado")
	return cancelled, nil
}

// Delete elimina un borrador. No es una transición: un DRAFT eliminado nunca
// tocó el libro de stock.
func (l *Lifecycle) Delete(ctx context.Context, id string) error {
	if _, err := l.getOwn(ctx, id); err != nil {
		return err
	}
	matched, err := l.docs.DeleteDraft(ctx, id)
	if err != nil {
		return err
	}
	if !matched {
		return domain.ErrInvalidTransition
	}
	return nil
}

// Get devuelve el documento del tipo de esta máquina.
func (l *Lifecycle) Get(ctx context.Context, id string) (*entity.Document, error) {
	return l.getOwn(ctx, id)
}

// List lista documentos del tipo de esta máquina con filtros.
func (l *Lifecycle) List(ctx context.Context, filter repository.DocumentFilter) ([]*entity.Document, error) {
	filter.Type = l.cfg.Type
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return l.docs.List(ctx, filter)
}

// getOwn carga el documento y verifica que pertenezca a este tipo (una venta
// no se puede confirmar por la ruta de recepciones).
func (l *Lifecycle) getOwn(ctx context.Context, id string) (*entity.Document, error) {
	doc, err := l.docs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil || doc.Type != l.cfg.Type {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

func toLedgerLine(line entity.DocumentLine, warehouseID string) ledger.Line {
	return ledger.Line{
		ProductID:      line.ProductID,
		WarehouseID:    warehouseID,
		Quantity:       line.Quantity,
		SerialNumbers:  line.SerialNumbers,
		LotCode:        line.LotCode,
		ExpirationDate: line.ExpirationDate,
	}
}
