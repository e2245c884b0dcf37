package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los handlers HTTP los mapean a códigos de estado con errors.Is; nunca se
// reintentan automáticamente.
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrProductNotFound = errors.New("producto no encontrado")
	ErrDuplicate       = errors.New("recurso duplicado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrUnauthorized    = errors.New("no autorizado")
)

// Errores de validación de líneas de documento.
var (
	ErrEmptyLines          = errors.New("el documento requiere al menos una línea")
	ErrVariantDirectUse    = errors.New("un producto padre de variantes no puede usarse directamente en un documento")
	ErrSerialCountMismatch = errors.New("la cantidad de números de serie debe coincidir con la cantidad de la línea")
	ErrLotCodeRequired     = errors.New("el código de lote es obligatorio para productos por lote")
	ErrExpirationRequired  = errors.New("la fecha de vencimiento es obligatoria para productos perecederos")
)

// Errores del motor de stock. Son fallas de negocio: abortan la unidad de
// trabajo completa y se devuelven tal cual al caller.
var (
	ErrInvalidTrackingKind  = errors.New("tipo de seguimiento de producto inválido")
	ErrInsufficientStock    = errors.New("stock insuficiente")
	ErrInsufficientLotStock = errors.New("stock insuficiente en el lote")
	ErrDuplicateSerial      = errors.New("uno o más números de serie ya existen en el stock")
	ErrSerialsNotFound      = errors.New("números de serie no encontrados en el stock")
	ErrNoSuitableBatch      = errors.New("no hay lote vigente con stock suficiente")
)

// Errores del ciclo de vida de documentos.
var (
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrReasonRequired    = errors.New("el motivo de cancelación es obligatorio")
)
