package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implementación de DocumentRepository sobre PostgreSQL
// (usable con pool o tx). Cabecera en documents, líneas en document_lines
// (ON DELETE CASCADE). Los cambios de estado son UPDATE condicionales sobre
// el estado esperado.
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

// Create persiste cabecera y líneas. Llamar dentro de una transacción: son
// varios statements.
func (r *DocumentRepo) Create(ctx context.Context, doc *entity.Document) error {
	query := `
		INSERT INTO documents (id, type, counterparty_id, warehouse_id, document_date, currency, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		doc.ID, doc.Type, doc.CounterpartyID, doc.WarehouseID,
		doc.DocumentDate, doc.Currency, doc.Status, doc.CreatedBy,
		doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert document: %w", err)
	}
	return r.insertLines(ctx, doc.ID, doc.Lines)
}

func (r *DocumentRepo) insertLines(ctx context.Context, docID string, lines []entity.DocumentLine) error {
	query := `
		INSERT INTO document_lines (document_id, position, product_id, quantity, unit_price, serial_numbers, lot_code, expiration_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for i, line := range lines {
		var serials any
		if len(line.SerialNumbers) > 0 {
			serials = line.SerialNumbers
		}
		_, err := r.q.Exec(ctx, query,
			docID, i, line.ProductID, line.Quantity, line.UnitPrice,
			serials, nullIfEmpty(line.LotCode), line.ExpirationDate,
		)
		if err != nil {
			return fmt.Errorf("insert document line %d: %w", i, err)
		}
	}
	return nil
}

// GetByID obtiene un documento completo (cabecera + líneas ordenadas).
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	query := `
		SELECT id, type, counterparty_id, warehouse_id, document_date, currency, status,
		       created_by, confirmed_by, confirmed_at, cancelled_by, cancelled_at, cancellation_reason,
		       created_at, updated_at
		FROM documents WHERE id = $1`
	var d entity.Document
	var confirmedBy, cancelledBy, reason *string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.Type, &d.CounterpartyID, &d.WarehouseID, &d.DocumentDate, &d.Currency, &d.Status,
		&d.CreatedBy, &confirmedBy, &d.ConfirmedAt, &cancelledBy, &d.CancelledAt, &reason,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	if confirmedBy != nil {
		d.ConfirmedBy = *confirmedBy
	}
	if cancelledBy != nil {
		d.CancelledBy = *cancelledBy
	}
	if reason != nil {
		d.CancellationReason = *reason
	}
	lines, err := r.loadLines(ctx, []string{d.ID})
	if err != nil {
		return nil, err
	}
	d.Lines = lines[d.ID]
	return &d, nil
}

// List lista documentos con filtros; carga las líneas de la página en una
// sola consulta adicional.
func (r *DocumentRepo) List(ctx context.Context, filter repository.DocumentFilter) ([]*entity.Document, error) {
	query := `
		SELECT id, type, counterparty_id, warehouse_id, document_date, currency, status,
		       created_by, confirmed_by, confirmed_at, cancelled_by, cancelled_at, cancellation_reason,
		       created_at, updated_at
		FROM documents
		WHERE type = $1
		  AND ($2 = '' OR status = $2)
		  AND ($3 = '' OR warehouse_id = $3)
		  AND ($4 = '' OR counterparty_id = $4)
		  AND ($5::timestamptz IS NULL OR document_date >= $5)
		  AND ($6::timestamptz IS NULL OR document_date <= $6)
		ORDER BY created_at DESC, id
		LIMIT $7 OFFSET $8`
	rows, err := r.q.Query(ctx, query,
		filter.Type, string(filter.Status), filter.WarehouseID, filter.CounterpartyID,
		filter.From, filter.To, filter.Limit, filter.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var list []*entity.Document
	var ids []string
	for rows.Next() {
		var d entity.Document
		var confirmedBy, cancelledBy, reason *string
		if err := rows.Scan(
			&d.ID, &d.Type, &d.CounterpartyID, &d.WarehouseID, &d.DocumentDate, &d.Currency, &d.Status,
			&d.CreatedBy, &confirmedBy, &d.ConfirmedAt, &cancelledBy, &d.CancelledAt, &reason,
			&d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		if confirmedBy != nil {
			d.ConfirmedBy = *confirmedBy
		}
		if cancelledBy != nil {
			d.CancelledBy = *cancelledBy
		}
		if reason != nil {
			d.CancellationReason = *reason
		}
		list = append(list, &d)
		ids = append(ids, d.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return list, nil
	}
	lines, err := r.loadLines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, d := range list {
		d.Lines = lines[d.ID]
	}
	return list, nil
}

func (r *DocumentRepo) loadLines(ctx context.Context, docIDs []string) (map[string][]entity.DocumentLine, error) {
	query := `
		SELECT document_id, product_id, quantity, unit_price, serial_numbers, lot_code, expiration_date
		FROM document_lines
		WHERE document_id = ANY($1)
		ORDER BY document_id, position`
	rows, err := r.q.Query(ctx, query, docIDs)
	if err != nil {
		return nil, fmt.Errorf("load document lines: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]entity.DocumentLine, len(docIDs))
	for rows.Next() {
		var docID string
		var l entity.DocumentLine
		var lotCode *string
		if err := rows.Scan(&docID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.SerialNumbers, &lotCode, &l.ExpirationDate); err != nil {
			return nil, fmt.Errorf("scan document line: %w", err)
		}
		if lotCode != nil {
			l.LotCode = *lotCode
		}
		out[docID] = append(out[docID], l)
	}
	return out, rows.Err()
}

// ReplaceDraft reemplaza cabecera y líneas solo si el documento sigue en
// DRAFT. Llamar dentro de una transacción.
func (r *DocumentRepo) ReplaceDraft(ctx context.Context, doc *entity.Document) (bool, error) {
	query := `
		UPDATE documents
		SET counterparty_id = $2, warehouse_id = $3, document_date = $4, currency = $5, updated_at = $6
		WHERE id = $1 AND status = 'DRAFT'`
	tag, err := r.q.Exec(ctx, query,
		doc.ID, doc.CounterpartyID, doc.WarehouseID, doc.DocumentDate, doc.Currency, doc.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("update draft document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM document_lines WHERE document_id = $1`, doc.ID); err != nil {
		return false, fmt.Errorf("delete document lines: %w", err)
	}
	if err := r.insertLines(ctx, doc.ID, doc.Lines); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteDraft elimina el documento solo si sigue en DRAFT (las líneas caen
// por cascada).
func (r *DocumentRepo) DeleteDraft(ctx context.Context, id string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM documents WHERE id = $1 AND status = 'DRAFT'`, id)
	if err != nil {
		return false, fmt.Errorf("delete draft document: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SetStatus cambia el estado solo si el actual es `from`, registrando la
// auditoría de la transición.
func (r *DocumentRepo) SetStatus(ctx context.Context, id string, from, to entity.DocumentStatus, change repository.StatusChange) (bool, error) {
	var query string
	switch to {
	case entity.StatusConfirmed:
		query = `
			UPDATE documents
			SET status = $3, confirmed_by = $4, confirmed_at = $5, updated_at = $5
			WHERE id = $1 AND status = $2`
	case entity.StatusCancelled:
		query = `
			UPDATE documents
			SET status = $3, cancelled_by = $4, cancelled_at = $5, updated_at = $5, cancellation_reason = $6
			WHERE id = $1 AND status = $2`
	default:
		return false, fmt.Errorf("set status: destino no soportado %q", to)
	}
	args := []any{id, from, to, change.ActorID, change.At}
	if to == entity.StatusCancelled {
		args = append(args, change.Reason)
	}
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("set document status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
