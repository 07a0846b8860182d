package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	appaccess "github.com/jhoicas/Bodegas-api/internal/application/access"
	"github.com/jhoicas/Bodegas-api/internal/application/dto"
	"github.com/jhoicas/Bodegas-api/internal/application/stock"
	"github.com/jhoicas/Bodegas-api/internal/domain"
	domaccess "github.com/jhoicas/Bodegas-api/internal/domain/access"
	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
)

// StockHandler maneja las peticiones HTTP del kardex: reposiciones directas,
// consulta de cantidades y listado de movimientos (protegido).
type StockHandler struct {
	ledger   *stock.Ledger
	resolver *appaccess.Resolver
}

// NewStockHandler construye el handler.
func NewStockHandler(ledger *stock.Ledger, resolver *appaccess.Resolver) *StockHandler {
	return &StockHandler{ledger: ledger, resolver: resolver}
}

// StockIn godoc
// @Summary      Registrar reposición directa (stock-in)
// @Description  Entrada de mercancía sin solicitud de traslado. Requiere la
//
//	capacidad Create sobre la bodega.
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockInRequest  true  "warehouse_id, product_id, stock_kind, quantity"
// @Success      201   {object}  dto.StockApplyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/stock/in [post]
func (h *StockHandler) StockIn(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.StockInRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.resolver.Authorize(c.Context(), userID, in.WarehouseID, domaccess.OpCreate); err != nil {
		return h.stockError(c, err)
	}
	result, err := h.ledger.RegisterStockIn(c.Context(), in.WarehouseID, in.ProductID, in.StockKind, in.Quantity, userID)
	if err != nil {
		return h.stockError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.StockApplyResponse{
		NewQuantity: result.NewQuantity,
		LogEntryID:  result.LogEntryID,
	})
}

// GetQuantity godoc
// @Summary      Cantidad actual de una fila de stock
// @Description  Cantidad por (bodega, producto, clase de stock). Una fila que
//
//	nunca ha tenido movimientos responde cantidad cero.
//
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  true   "ID de la bodega"
// @Param        product_id    query  string  true   "ID del producto"
// @Param        stock_kind    query  string  false  "regular | promotional"  default(regular)
// @Success      200  {object}  dto.StockQuantityResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/stock/quantity [get]
func (h *StockHandler) GetQuantity(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	warehouseID := c.Query("warehouse_id")
	productID := c.Query("product_id")
	stockKind := c.Query("stock_kind", entity.StockKindRegular)
	if warehouseID == "" || productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id y product_id son requeridos"})
	}
	if err := h.resolver.Authorize(c.Context(), userID, warehouseID, domaccess.OpRead); err != nil {
		return h.stockError(c, err)
	}
	qty, err := h.ledger.GetQuantity(c.Context(), warehouseID, productID, stockKind)
	if err != nil {
		return h.stockError(c, err)
	}
	return c.JSON(dto.StockQuantityResponse{
		WarehouseID: warehouseID,
		ProductID:   productID,
		StockKind:   stockKind,
		Quantity:    qty,
	})
}

// ListStock godoc
// @Summary      Stock actual de una bodega
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la bodega"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.StockResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/warehouses/{id}/stock [get]
func (h *StockHandler) ListStock(c *fiber.Ctx) error {
	userID := GetUserID(c)
	warehouseID := c.Params("id")
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.resolver.Authorize(c.Context(), userID, warehouseID, domaccess.OpRead); err != nil {
		return h.stockError(c, err)
	}
	limit, offset := pageParams(c)
	list, err := h.ledger.ListStock(c.Context(), warehouseID, limit, offset)
	if err != nil {
		return h.stockError(c, err)
	}
	out := make([]dto.StockResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.StockResponse{
			WarehouseID: s.WarehouseID,
			ProductID:   s.ProductID,
			StockKind:   s.StockKind,
			Quantity:    s.Quantity,
			UpdatedAt:   s.UpdatedAt,
		})
	}
	return c.JSON(out)
}

// ListLog godoc
// @Summary      Kardex de una bodega
// @Description  Movimientos en orden cronológico inverso, filtrables por
//
//	producto y rango de fechas (RFC 3339).
//
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id          path   string  true   "ID de la bodega"
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        from        query  string  false  "Desde (RFC 3339)"
// @Param        to          query  string  false  "Hasta (RFC 3339)"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.StockLogListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/warehouses/{id}/stock-log [get]
func (h *StockHandler) ListLog(c *fiber.Ctx) error {
	userID := GetUserID(c)
	warehouseID := c.Params("id")
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.resolver.Authorize(c.Context(), userID, warehouseID, domaccess.OpRead); err != nil {
		return h.stockError(c, err)
	}
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC 3339"})
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC 3339"})
	}
	limit, offset := pageParams(c)
	entries, err := h.ledger.ListLog(c.Context(), warehouseID, c.Query("product_id"), from, to, limit, offset)
	if err != nil {
		return h.stockError(c, err)
	}
	items := make([]dto.StockLogEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.StockLogEntryResponse{
			ID:          e.ID,
			WarehouseID: e.WarehouseID,
			ProductID:   e.ProductID,
			StockKind:   e.StockKind,
			Quantity:    e.Quantity,
			Movement:    e.Movement,
			RequestKind: e.RequestKind,
			CreatedAt:   e.CreatedAt,
			CreatedBy:   e.CreatedBy,
		})
	}
	return c.JSON(dto.StockLogListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	})
}

// stockError mapea los errores del kardex a códigos HTTP.
func (h *StockHandler) stockError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "bodega o producto no encontrado"})
	}
	if errors.Is(err, domain.ErrForbidden) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado a la bodega"})
	}
	if errors.Is(err, domain.ErrInsufficientStock) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// parseTimeQuery parsea un query param de fecha RFC 3339 opcional.
func parseTimeQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
