package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/ledger"
)

// StockHandler consultas de solo lectura sobre el libro de stock. Las
// mutaciones no se exponen: el stock solo cambia confirmando o cancelando
// documentos.
type StockHandler struct {
	engine *ledger.Engine
}

// NewStockHandler construye el handler sobre el motor de stock.
func NewStockHandler(engine *ledger.Engine) *StockHandler {
	return &StockHandler{engine: engine}
}

// Query godoc
// @Summary      Entradas de stock de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id    path   string  true   "ID del producto"
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Success      200  {object}  dto.StockQueryResponse
// @Router       /api/stock/{product_id} [get]
func (h *StockHandler) Query(c *fiber.Ctx) error {
	productID := c.Params("product_id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "product_id es requerido"})
	}
	warehouseID := c.Query("warehouse_id")
	entries, err := h.engine.Query(c.Context(), productID, warehouseID)
	if err != nil {
		return respondError(c, err)
	}
	out := dto.StockQueryResponse{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Entries:     make([]dto.StockEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		out.Total += e.Quantity
		out.Entries = append(out.Entries, dto.ToStockEntryResponse(e))
	}
	return c.JSON(out)
}

// Availability godoc
// @Summary      Pre-chequeo de disponibilidad (consultivo, no reserva)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id    path   string  true  "ID del producto"
// @Param        warehouse_id  query  string  true  "Bodega"
// @Param        quantity      query  int     true  "Cantidad requerida"
// @Success      200  {object}  dto.AvailabilityResponse
// @Router       /api/stock/{product_id}/availability [get]
func (h *StockHandler) Availability(c *fiber.Ctx) error {
	productID := c.Params("product_id")
	warehouseID := c.Query("warehouse_id")
	qty := int64(c.QueryInt("quantity", 0))
	if productID == "" || warehouseID == "" || qty <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id, warehouse_id y quantity > 0 son requeridos"})
	}
	sufficient, err := h.engine.Availability(c.Context(), productID, warehouseID, qty)
	if err != nil {
		return respondError(c, err)
	}
	entries, err := h.engine.Query(c.Context(), productID, warehouseID)
	if err != nil {
		return respondError(c, err)
	}
	var total int64
	for _, e := range entries {
		total += e.Quantity
	}
	return c.JSON(dto.AvailabilityResponse{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Requested:   qty,
		Available:   total,
		Sufficient:  sufficient,
	})
}
