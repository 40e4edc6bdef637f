package http

import (
	"github.com/GukMaksim/construction-inventory/internal/application/dto"
	"github.com/GukMaksim/construction-inventory/internal/application/usecase"
	"github.com/gofiber/fiber/v2"
)

// SiteHandler objetos de obra y sus secciones.
type SiteHandler struct {
	sites    *usecase.SiteUseCase
	sections *usecase.SectionUseCase
}

// NewSiteHandler construye el handler.
func NewSiteHandler(sites *usecase.SiteUseCase, sections *usecase.SectionUseCase) *SiteHandler {
	return &SiteHandler{sites: sites, sections: sections}
}

// List godoc
// @Summary      Listar objetos con sus secciones
// @Tags         sites
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "ACTIVE | COMPLETED | SUSPENDED"
// @Success      200  {array}  dto.SiteResponse
// @Router       /api/sites [get]
func (h *SiteHandler) List(c *fiber.Ctx) error {
	out, err := h.sites.List(c.UserContext(), c.Query("status"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *SiteHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.sites.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *SiteHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSiteRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.sites.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *SiteHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in dto.UpdateSiteRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.sites.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete falla con 409 si el objeto tiene secciones.
func (h *SiteHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.sites.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "objeto eliminado"})
}

// ── Secciones ────────────────────────────────────────────────────────────────

func (h *SiteHandler) ListSections(c *fiber.Ctx) error {
	siteID, err := paramID(c, "siteId")
	if err != nil {
		return err
	}
	out, err := h.sections.ListBySite(c.UserContext(), siteID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *SiteHandler) GetSection(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.sections.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *SiteHandler) CreateSection(c *fiber.Ctx) error {
	var in dto.CreateSectionRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.sections.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *SiteHandler) UpdateSection(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in dto.UpdateSectionRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.sections.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// DeleteSection falla con 409 si la sección tiene movimientos.
func (h *SiteHandler) DeleteSection(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.sections.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "sección eliminada"})
}
