package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType distingue los dos documentos de negocio que mueven stock.
type DocumentType string

const (
	DocumentSales           DocumentType = "SALES"
	DocumentPurchaseReceipt DocumentType = "PURCHASE_RECEIPT"
)

// DocumentStatus estado del ciclo de vida. Las transiciones son monótonas:
// DRAFT -> CONFIRMED -> CANCELLED; DRAFT puede además eliminarse.
type DocumentStatus string

const (
	StatusDraft     DocumentStatus = "DRAFT"
	StatusConfirmed DocumentStatus = "CONFIRMED"
	StatusCancelled DocumentStatus = "CANCELLED"
)

// DocumentLine línea de un documento. Los campos discriminantes opcionales
// (seriales, lote, vencimiento) los aporta el autor del documento y se
// validan contra el tracking kind del producto.
type DocumentLine struct {
	ProductID      string
	Quantity       int64
	UnitPrice      decimal.Decimal
	SerialNumbers  []string
	LotCode        string
	ExpirationDate *time.Time
}

// Document es una venta o una recepción de compra. Una vez CONFIRMED las
// líneas son inmutables; CANCELLED agrega metadatos de reversa sin alterar
// las líneas (auditoría de qué se revirtió exactamente).
type Document struct {
	ID             string
	Type           DocumentType
	CounterpartyID string // cliente o proveedor, opaco en esta capa
	WarehouseID    string
	DocumentDate   time.Time
	Currency       string
	Status         DocumentStatus
	Lines          []DocumentLine

	CreatedBy          string
	ConfirmedBy        string
	ConfirmedAt        *time.Time
	CancelledBy        string
	CancelledAt        *time.Time
	CancellationReason string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Total suma cantidad*precio de todas las líneas.
func (d *Document) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range d.Lines {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity)))
	}
	return total
}
