package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// DocumentLineRequest línea de entrada para ventas y recepciones. Los campos
// discriminantes (seriales, lote, vencimiento) dependen del tracking kind del
// producto y los valida el caso de uso.
type DocumentLineRequest struct {
	ProductID      string          `json:"product_id" validate:"required"`
	Quantity       int64           `json:"quantity" validate:"required,min=1"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	SerialNumbers  []string        `json:"serial_numbers,omitempty"`
	LotCode        string          `json:"lot_code,omitempty"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
}

// CreateDocumentRequest cabecera + líneas para crear o reemplazar un borrador.
type CreateDocumentRequest struct {
	CounterpartyID string                `json:"counterparty_id" validate:"required"`
	WarehouseID    string                `json:"warehouse_id" validate:"required"`
	DocumentDate   time.Time             `json:"document_date"`
	Currency       string                `json:"currency"`
	Lines          []DocumentLineRequest `json:"lines" validate:"required,min=1"`
}

// CancelDocumentRequest body para cancelar un documento confirmado.
type CancelDocumentRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// DocumentLineResponse línea en respuestas.
type DocumentLineResponse struct {
	ProductID      string          `json:"product_id"`
	Quantity       int64           `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	SerialNumbers  []string        `json:"serial_numbers,omitempty"`
	LotCode        string          `json:"lot_code,omitempty"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
}

// DocumentResponse salida de un documento (venta o recepción).
type DocumentResponse struct {
	ID                 string                 `json:"id"`
	Type               string                 `json:"type"`
	CounterpartyID     string                 `json:"counterparty_id"`
	WarehouseID        string                 `json:"warehouse_id"`
	DocumentDate       time.Time              `json:"document_date"`
	Currency           string                 `json:"currency"`
	Status             string                 `json:"status"`
	Lines              []DocumentLineResponse `json:"lines"`
	Total              decimal.Decimal        `json:"total"`
	CreatedBy          string                 `json:"created_by"`
	ConfirmedBy        string                 `json:"confirmed_by,omitempty"`
	ConfirmedAt        *time.Time             `json:"confirmed_at,omitempty"`
	CancelledBy        string                 `json:"cancelled_by,omitempty"`
	CancelledAt        *time.Time             `json:"cancelled_at,omitempty"`
	CancellationReason string                 `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
}

// DocumentListResponse lista paginada de documentos.
type DocumentListResponse struct {
	Items []DocumentResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ToEntityLines mapea las líneas de entrada a líneas de dominio.
func ToEntityLines(lines []DocumentLineRequest) []entity.DocumentLine {
	out := make([]entity.DocumentLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, entity.DocumentLine{
			ProductID:      l.ProductID,
			Quantity:       l.Quantity,
			UnitPrice:      l.UnitPrice,
			SerialNumbers:  l.SerialNumbers,
			LotCode:        l.LotCode,
			ExpirationDate: l.ExpirationDate,
		})
	}
	return out
}

// ToDocumentResponse mapea la entidad al DTO de salida.
func ToDocumentResponse(d *entity.Document) DocumentResponse {
	lines := make([]DocumentLineResponse, 0, len(d.Lines))
	for _, l := range d.Lines {
		lines = append(lines, DocumentLineResponse{
			ProductID:      l.ProductID,
			Quantity:       l.Quantity,
			UnitPrice:      l.UnitPrice,
			SerialNumbers:  l.SerialNumbers,
			LotCode:        l.LotCode,
			ExpirationDate: l.ExpirationDate,
		})
	}
	return DocumentResponse{
		ID:                 d.ID,
		Type:               string(d.Type),
		CounterpartyID:     d.CounterpartyID,
		WarehouseID:        d.WarehouseID,
		DocumentDate:       d.DocumentDate,
		Currency:           d.Currency,
		Status:             string(d.Status),
		Lines:              lines,
		Total:              d.Total(),
		CreatedBy:          d.CreatedBy,
		ConfirmedBy:        d.ConfirmedBy,
		ConfirmedAt:        d.ConfirmedAt,
		CancelledBy:        d.CancelledBy,
		CancelledAt:        d.CancelledAt,
		CancellationReason: d.CancellationReason,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}
