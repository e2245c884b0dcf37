package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Kardex-api/internal/application/document"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// DocumentHandler maneja las peticiones HTTP del ciclo de vida de un tipo de
// documento. Ventas y recepciones comparten la misma superficie: cada grupo
// de rutas monta su propia instancia sobre la máquina de estados del tipo.
type DocumentHandler struct {
	lc *document.Lifecycle
}

// NewDocumentHandler construye el handler sobre la máquina de estados dada.
func NewDocumentHandler(lc *document.Lifecycle) *DocumentHandler {
	return &DocumentHandler{lc: lc}
}

func parseCreateInput(c *fiber.Ctx) (document.CreateInput, bool) {
	var in dto.CreateDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return document.CreateInput{}, false
	}
	return document.CreateInput{
		CounterpartyID: in.CounterpartyID,
		WarehouseID:    in.WarehouseID,
		DocumentDate:   in.DocumentDate,
		Currency:       in.Currency,
		Lines:          dto.ToEntityLines(in.Lines),
	}, true
}

// Create godoc
// @Summary      Crear documento en borrador
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDocumentRequest  true  "Cabecera y líneas"
// @Success      201   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/{documents} [post]
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	in, ok := parseCreateInput(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	doc, err := h.lc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToDocumentResponse(doc))
}

// GetByID godoc
// @Summary      Obtener documento por ID
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/{documents}/{id} [get]
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	doc, err := h.lc.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToDocumentResponse(doc))
}

// List godoc
// @Summary      Listar documentos
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        status           query  string  false  "DRAFT | CONFIRMED | CANCELLED"
// @Param        warehouse_id     query  string  false  "Filtrar por bodega"
// @Param        counterparty_id  query  string  false  "Filtrar por cliente/proveedor"
// @Param        from             query  string  false  "Fecha mínima (RFC3339)"
// @Param        to               query  string  false  "Fecha máxima (RFC3339)"
// @Param        limit            query  int     false  "Límite"   default(20)
// @Param        offset           query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.DocumentListResponse
// @Router       /api/{documents} [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	filter := repository.DocumentFilter{
		Status:         entity.DocumentStatus(c.Query("status")),
		WarehouseID:    c.Query("warehouse_id"),
		CounterpartyID: c.Query("counterparty_id"),
		Limit:          limit,
		Offset:         offset,
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC3339"})
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC3339"})
		}
		filter.To = &t
	}
	docs, err := h.lc.List(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		items = append(items, dto.ToDocumentResponse(d))
	}
	return c.JSON(dto.DocumentListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	})
}

// Update godoc
// @Summary      Reemplazar cabecera y líneas de un borrador
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del documento"
// @Param        body  body  dto.CreateDocumentRequest  true  "Cabecera y líneas"
// @Success      200   {object}  dto.DocumentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/{documents}/{id} [put]
func (h *DocumentHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	in, ok := parseCreateInput(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	doc, err := h.lc.Update(c.Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToDocumentResponse(doc))
}

// Confirm godoc
// @Summary      Confirmar borrador (aplica el efecto de stock de cada línea)
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/{documents}/{id}/confirm [post]
func (h *DocumentHandler) Confirm(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	doc, err := h.lc.Confirm(c.Context(), GetUserID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToDocumentResponse(doc))
}

// Cancel godoc
// @Summary      Cancelar documento confirmado (revierte el efecto de stock)
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del documento"
// @Param        body  body  dto.CancelDocumentRequest  true  "Motivo de cancelación"
// @Success      200   {object}  dto.DocumentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/{documents}/{id}/cancel [post]
func (h *DocumentHandler) Cancel(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.CancelDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	doc, err := h.lc.Cancel(c.Context(), GetUserID(c), id, in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToDocumentResponse(doc))
}

// Delete godoc
// @Summary      Eliminar borrador
// @Tags         documents
// @Security     Bearer
// @Param        id  path  string  true  "ID del documento"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/{documents}/{id} [delete]
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.lc.Delete(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
