package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Bodegas-api/internal/application/dto"
	"github.com/jhoicas/Bodegas-api/internal/application/transfer"
	"github.com/jhoicas/Bodegas-api/internal/domain"
	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
)

// TransferHandler maneja el ciclo de vida de las solicitudes de traslado:
// crear, aprobar, rechazar y confirmar (protegido).
type TransferHandler struct {
	uc *transfer.UseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *transfer.UseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// Create godoc
// @Summary      Crear solicitud de traslado
// @Description  Crea una solicitud en estado pending. Requiere la capacidad
//
//	Create sobre la bodega de origen.
//
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "warehouse_id, product_id, request_kind, stock_kind, quantity"
// @Success      201   {object}  dto.TransferRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	req, err := h.uc.Create(c.Context(), companyID, userID, transfer.CreateInput{
		WarehouseID: in.WarehouseID,
		ProductID:   in.ProductID,
		VehicleID:   in.VehicleID,
		RequestKind: in.RequestKind,
		StockKind:   in.StockKind,
		Quantity:    in.Quantity,
	})
	if err != nil {
		return h.transferError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransferResponse(req))
}

// GetByID godoc
// @Summary      Obtener solicitud por ID
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.TransferRequestResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [get]
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	req, err := h.uc.GetByID(c.Context(), userID, c.Params("id"))
	if err != nil {
		return h.transferError(c, err)
	}
	return c.JSON(toTransferResponse(req))
}

// ListByWarehouse godoc
// @Summary      Listar solicitudes de una bodega
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  true   "ID de la bodega"
// @Param        status        query  string  false  "pending | approved | rejected"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.TransferRequestListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/transfers [get]
func (h *TransferHandler) ListByWarehouse(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	warehouseID := c.Query("warehouse_id")
	if warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id es requerido"})
	}
	limit, offset := pageParams(c)
	list, err := h.uc.ListByWarehouse(c.Context(), userID, warehouseID, c.Query("status"), limit, offset)
	if err != nil {
		return h.transferError(c, err)
	}
	items := make([]dto.TransferRequestResponse, 0, len(list))
	for _, req := range list {
		items = append(items, toTransferResponse(req))
	}
	return c.JSON(dto.TransferRequestListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	})
}

// ListMine godoc
// @Summary      Listar mis solicitudes
// @Description  Lista las solicitudes creadas por el usuario autenticado.
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.TransferRequestListResponse
// @Router       /api/transfers/mine [get]
func (h *TransferHandler) ListMine(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	limit, offset := pageParams(c)
	list, err := h.uc.ListMine(c.Context(), userID, limit, offset)
	if err != nil {
		return h.transferError(c, err)
	}
	items := make([]dto.TransferRequestResponse, 0, len(list))
	for _, req := range list {
		items = append(items, toTransferResponse(req))
	}
	return c.JSON(dto.TransferRequestListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	})
}

// Approve godoc
// @Summary      Aprobar solicitud
// @Description  Transición pending → approved. No toca stock. Requiere la
//
//	capacidad Update sobre la bodega.
//
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.TransferRequestResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/approve [post]
func (h *TransferHandler) Approve(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	req, err := h.uc.Approve(c.Context(), userID, c.Params("id"))
	if err != nil {
		return h.transferError(c, err)
	}
	return c.JSON(toTransferResponse(req))
}

// Reject godoc
// @Summary      Rechazar solicitud
// @Description  Transición pending → rejected con comentario opcional. Estado
//
//	terminal: la solicitud no puede reabrirse.
//
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.RejectTransferRequest  false  "comment"
// @Success      200   {object}  dto.TransferRequestResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/reject [post]
func (h *TransferHandler) Reject(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RejectTransferRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	req, err := h.uc.Reject(c.Context(), userID, c.Params("id"), in.Comment)
	if err != nil {
		return h.transferError(c, err)
	}
	return c.JSON(toTransferResponse(req))
}

// Confirm godoc
// @Summary      Confirmar solicitud aprobada
// @Description  Única operación que muta stock: aplica el movimiento del
//
//	kardex con el signo del tipo de solicitud, en la misma
//	transacción que marca la solicitud como confirmada. Una
//	confirmación repetida responde 409.
//
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.TransferRequestResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/confirm [post]
func (h *TransferHandler) Confirm(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	req, err := h.uc.Confirm(c.Context(), userID, c.Params("id"))
	if err != nil {
		return h.transferError(c, err)
	}
	return c.JSON(toTransferResponse(req))
}

// transferError mapea los errores del ciclo de solicitudes a códigos HTTP.
func (h *TransferHandler) transferError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "solicitud, bodega, producto o vehículo no encontrado"})
	}
	if errors.Is(err, domain.ErrForbidden) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado a la bodega"})
	}
	if errors.Is(err, domain.ErrInvalidTransition) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: "la solicitud no admite esta transición"})
	}
	if errors.Is(err, domain.ErrInsufficientStock) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func toTransferResponse(req *entity.TransferRequest) dto.TransferRequestResponse {
	return dto.TransferRequestResponse{
		ID:          req.ID,
		CompanyID:   req.CompanyID,
		WarehouseID: req.WarehouseID,
		ProductID:   req.ProductID,
		VehicleID:   req.VehicleID,
		RequestKind: req.RequestKind,
		StockKind:   req.StockKind,
		Quantity:    req.Quantity,
		Status:      req.Status,
		Confirmed:   req.Confirmed,
		Comment:     req.Comment,
		RequestedBy: req.RequestedBy,
		ApprovedBy:  req.ApprovedBy,
		ConfirmedBy: req.ConfirmedBy,
		RequestedAt: req.RequestedAt,
		ApprovedAt:  req.ApprovedAt,
		ConfirmedAt: req.ConfirmedAt,
	}
}
