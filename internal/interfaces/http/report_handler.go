package http

import (
	"github.com/GukMaksim/construction-inventory/internal/application/analytics"
	"github.com/GukMaksim/construction-inventory/internal/application/dto"
	"github.com/gofiber/fiber/v2"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeXML  = "application/xml; charset=utf-8"
)

// ReportHandler informes y exportaciones.
type ReportHandler struct {
	reports *analytics.ReportUseCase
	exports *analytics.ExportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(reports *analytics.ReportUseCase, exports *analytics.ExportUseCase) *ReportHandler {
	return &ReportHandler{reports: reports, exports: exports}
}

// Site godoc
// @Summary      Valoración de un objeto por secciones
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        siteId  path  int  true  "ID del objeto"
// @Success      200  {object}  dto.SiteReportResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/site/{siteId} [get]
func (h *ReportHandler) Site(c *fiber.Ctx) error {
	siteID, err := paramID(c, "siteId")
	if err != nil {
		return err
	}
	out, err := h.reports.SiteReport(c.UserContext(), siteID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Movements godoc
// @Summary      Movimientos del periodo agrupados por producto
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        startDate  query  string  false  "YYYY-MM-DD o RFC3339"
// @Param        endDate    query  string  false  "YYYY-MM-DD o RFC3339"
// @Success      200  {object}  dto.MovementsReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/stock-movements [get]
func (h *ReportHandler) Movements(c *fiber.Ctx) error {
	out, err := h.reports.MovementsReport(c.UserContext(), movementsQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.reports.LowStock(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	out, err := h.reports.Summary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ── Exportaciones ────────────────────────────────────────────────────────────

func (h *ReportHandler) SitePDF(c *fiber.Ctx) error {
	siteID, err := paramID(c, "siteId")
	if err != nil {
		return err
	}
	content, filename, err := h.exports.SiteReportPDF(c.UserContext(), siteID)
	if err != nil {
		return err
	}
	return sendFile(c, contentTypePDF, filename, content)
}

func (h *ReportHandler) LowStockXLSX(c *fiber.Ctx) error {
	content, filename, err := h.exports.LowStockXLSX(c.UserContext())
	if err != nil {
		return err
	}
	return sendFile(c, contentTypeXLSX, filename, content)
}

func (h *ReportHandler) MovementsXLSX(c *fiber.Ctx) error {
	content, filename, err := h.exports.MovementsXLSX(c.UserContext(), movementsQuery(c))
	if err != nil {
		return err
	}
	return sendFile(c, contentTypeXLSX, filename, content)
}

func (h *ReportHandler) MovementsXML(c *fiber.Ctx) error {
	content, filename, err := h.exports.MovementsXML(c.UserContext(), movementsQuery(c))
	if err != nil {
		return err
	}
	return sendFile(c, contentTypeXML, filename, content)
}

func movementsQuery(c *fiber.Ctx) dto.MovementsReportQuery {
	return dto.MovementsReportQuery{StartDate: c.Query("startDate"), EndDate: c.Query("endDate")}
}
