package entity

import "time"

// TrackingKind define qué algoritmo de mutación de stock aplica al producto.
// Los tipos son mutuamente excluyentes; el despacho es un switch exhaustivo,
// nunca una jerarquía.
type TrackingKind string

const (
	TrackingSimple     TrackingKind = "SIMPLE"      // cantidad agregada por bodega
	TrackingSerialized TrackingKind = "SERIALIZED"  // unidades con número de serie
	TrackingLot        TrackingKind = "LOT_TRACKED" // cantidad por lote
	TrackingExpirable  TrackingKind = "EXPIRABLE"   // lotes con fecha de vencimiento (FEFO)
	TrackingVariant    TrackingKind = "VARIANT"     // padre de variantes, no almacenable
)

// Valid reporta si el tipo de seguimiento es uno de los conocidos.
func (k TrackingKind) Valid() bool {
	switch k {
	case TrackingSimple, TrackingSerialized, TrackingLot, TrackingExpirable, TrackingVariant:
		return true
	}
	return false
}

// Product es el maestro de productos (catálogo). El motor de stock y los
// documentos lo consumen solo en lectura: tracking kind y bandera de variante.
type Product struct {
	ID              string
	SKU             string // código único
	Name            string
	Description     string
	TrackingKind    TrackingKind
	IsVariantParent bool
	ParentID        string // ID del padre si este producto es una variante
	UnitMeasure     string // KG, PIECE, LITER, METER
	Active          bool   // soft delete
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
