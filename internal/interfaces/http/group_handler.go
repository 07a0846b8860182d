package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Bodegas-api/internal/application/dto"
	"github.com/jhoicas/Bodegas-api/internal/application/usecase"
	"github.com/jhoicas/Bodegas-api/internal/domain"
)

// GroupHandler maneja las peticiones HTTP para grupos de bodegas y sus
// aristas (bodegas y administradores). Protegido y solo para admins.
type GroupHandler struct {
	uc *usecase.GroupUseCase
}

// NewGroupHandler construye el handler.
func NewGroupHandler(uc *usecase.GroupUseCase) *GroupHandler {
	return &GroupHandler{uc: uc}
}

// Create godoc
// @Summary      Crear grupo de bodegas
// @Tags         groups
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateGroupRequest  true  "name, access_policy"
// @Success      201   {object}  dto.GroupResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/groups [post]
func (h *GroupHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in dto.CreateGroupRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(companyID, in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name y access_policy válidos son requeridos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener grupo por ID
// @Tags         groups
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del grupo"
// @Success      200  {object}  dto.GroupResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/groups/{id} [get]
func (h *GroupHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "grupo no encontrado"})
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar grupo (nombre o política)
// @Description  Cambiar access_policy afecta de inmediato la máscara efectiva
//
//	de todos los usuarios conectados a través de este grupo.
//
// @Tags         groups
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del grupo"
// @Param        body  body  dto.UpdateGroupRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.GroupResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/groups/{id} [put]
func (h *GroupHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateGroupRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Params("id"), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "access_policy inválida"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "grupo no encontrado"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar grupos de la empresa
// @Tags         groups
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.GroupListResponse
// @Router       /api/groups [get]
func (h *GroupHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	limit, offset := pageParams(c)
	out, err := h.uc.List(companyID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar grupo
// @Description  Elimina el grupo y sus aristas. Las solicitudes de traslado
//
//	existentes no se tocan; solo cambia el acceso futuro.
//
// @Tags         groups
// @Security     Bearer
// @Param        id   path  string  true  "ID del grupo"
// @Success      204  "Sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/groups/{id} [delete]
func (h *GroupHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "grupo no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddWarehouse godoc
// @Summary      Agregar bodega al grupo
// @Tags         groups
// @Security     Bearer
// @Accept       json
// @Param        id    path  string  true  "ID del grupo"
// @Param        body  body  dto.GroupWarehouseRequest  true  "warehouse_id"
// @Success      201   {object}  map[string]string
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/groups/{id}/warehouses [post]
func (h *GroupHandler) AddWarehouse(c *fiber.Ctx) error {
	var in dto.GroupWarehouseRequest
	if err := c.BodyParser(&in); err != nil || in.WarehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id es requerido"})
	}
	if err := h.uc.AddWarehouse(c.Params("id"), in.WarehouseID); err != nil {
		return h.edgeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "bodega agregada al grupo"})
}

// RemoveWarehouse godoc
// @Summary      Quitar bodega del grupo
// @Tags         groups
// @Security     Bearer
// @Param        id            path  string  true  "ID del grupo"
// @Param        warehouse_id  path  string  true  "ID de la bodega"
// @Success      204  "Sin contenido"
// @Router       /api/groups/{id}/warehouses/{warehouse_id} [delete]
func (h *GroupHandler) RemoveWarehouse(c *fiber.Ctx) error {
	if err := h.uc.RemoveWarehouse(c.Params("id"), c.Params("warehouse_id")); err != nil {
		return h.edgeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddAdmin godoc
// @Summary      Asignar administrador al grupo
// @Tags         groups
// @Security     Bearer
// @Accept       json
// @Param        id    path  string  true  "ID del grupo"
// @Param        body  body  dto.GroupAdminRequest  true  "user_id"
// @Success      201   {object}  map[string]string
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/groups/{id}/admins [post]
func (h *GroupHandler) AddAdmin(c *fiber.Ctx) error {
	var in dto.GroupAdminRequest
	if err := c.BodyParser(&in); err != nil || in.UserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "user_id es requerido"})
	}
	if err := h.uc.AddAdmin(c.Params("id"), in.UserID); err != nil {
		return h.edgeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "administrador asignado al grupo"})
}

// RemoveAdmin godoc
// @Summary      Quitar administrador del grupo
// @Tags         groups
// @Security     Bearer
// @Param        id       path  string  true  "ID del grupo"
// @Param        user_id  path  string  true  "ID del usuario"
// @Success      204  "Sin contenido"
// @Router       /api/groups/{id}/admins/{user_id} [delete]
func (h *GroupHandler) RemoveAdmin(c *fiber.Ctx) error {
	if err := h.uc.RemoveAdmin(c.Params("id"), c.Params("user_id")); err != nil {
		return h.edgeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// edgeError mapea los errores comunes de las operaciones de aristas.
func (h *GroupHandler) edgeError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "grupo, bodega o usuario no encontrado"})
	}
	if errors.Is(err, domain.ErrDuplicate) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "la arista ya existe"})
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
