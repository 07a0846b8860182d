package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	appaccess "github.com/jhoicas/Bodegas-api/internal/application/access"
	"github.com/jhoicas/Bodegas-api/internal/application/dto"
	"github.com/jhoicas/Bodegas-api/internal/application/report"
	"github.com/jhoicas/Bodegas-api/internal/domain"
	domaccess "github.com/jhoicas/Bodegas-api/internal/domain/access"
)

// ReportHandler genera reportes descargables del kardex (protegido).
type ReportHandler struct {
	kardex   *report.KardexUseCase
	resolver *appaccess.Resolver
}

// NewReportHandler construye el handler.
func NewReportHandler(kardex *report.KardexUseCase, resolver *appaccess.Resolver) *ReportHandler {
	return &ReportHandler{kardex: kardex, resolver: resolver}
}

// KardexPDF godoc
// @Summary      Kardex de una bodega en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        id    path   string  true   "ID de la bodega"
// @Param        from  query  string  false  "Desde (RFC 3339)"
// @Param        to    query  string  false  "Hasta (RFC 3339)"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/warehouses/{id}/kardex.pdf [get]
func (h *ReportHandler) KardexPDF(c *fiber.Ctx) error {
	userID := GetUserID(c)
	warehouseID := c.Params("id")
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.resolver.Authorize(c.Context(), userID, warehouseID, domaccess.OpRead); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado a la bodega"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "bodega no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC 3339"})
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC 3339"})
	}
	pdfBytes, err := h.kardex.GeneratePDF(c.Context(), warehouseID, from, to)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "bodega no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="kardex.pdf"`)
	return c.Send(pdfBytes)
}
