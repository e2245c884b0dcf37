package dto

import (
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// StockEntryResponse una entrada del libro de stock.
type StockEntryResponse struct {
	ID             string     `json:"id"`
	ProductID      string     `json:"product_id"`
	WarehouseID    string     `json:"warehouse_id"`
	Quantity       int64      `json:"quantity"`
	SerialNumbers  []string   `json:"serial_numbers,omitempty"`
	LotCode        string     `json:"lot_code,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// StockQueryResponse entradas de un producto más el total agregado.
type StockQueryResponse struct {
	ProductID   string               `json:"product_id"`
	WarehouseID string               `json:"warehouse_id,omitempty"`
	Total       int64                `json:"total"`
	Entries     []StockEntryResponse `json:"entries"`
}

// AvailabilityResponse resultado del pre-chequeo de disponibilidad. Es
// consultivo: la garantía real la dan las mutaciones condicionales.
type AvailabilityResponse struct {
	ProductID   string `json:"product_id"`
	WarehouseID string `json:"warehouse_id"`
	Requested   int64  `json:"requested"`
	Available   int64  `json:"available"`
	Sufficient  bool   `json:"sufficient"`
}

// ToStockEntryResponse mapea la entidad al DTO de salida.
func ToStockEntryResponse(e *entity.StockEntry) StockEntryResponse {
	return StockEntryResponse{
		ID:             e.ID,
		ProductID:      e.ProductID,
		WarehouseID:    e.WarehouseID,
		Quantity:       e.Quantity,
		SerialNumbers:  e.SerialNumbers,
		LotCode:        e.LotCode,
		ExpirationDate: e.ExpirationDate,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}
