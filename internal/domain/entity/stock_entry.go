package entity

import "time"

// StockEntry representa un "bucket" físico de stock de un producto en una
// bodega, opcionalmente discriminado por números de serie, lote o fecha de
// vencimiento según el tracking kind del producto.
//
// Invariantes: Quantity >= 0 siempre; para entradas serializadas
// len(SerialNumbers) == Quantity y ningún serial aparece en más de una
// entrada del sistema. Las entradas SIMPLE y por lote persisten en cero en
// lugar de borrarse (trazabilidad); las serializadas se eliminan al consumir
// el set completo.
type StockEntry struct {
	ID             string
	ProductID      string
	WarehouseID    string
	Quantity       int64
	SerialNumbers  []string   // solo SERIALIZED
	LotCode        string     // solo LOT_TRACKED
	ExpirationDate *time.Time // solo EXPIRABLE
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
