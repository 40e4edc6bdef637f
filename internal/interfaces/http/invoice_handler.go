package http

import (
	"github.com/GukMaksim/construction-inventory/internal/application/dto"
	"github.com/GukMaksim/construction-inventory/internal/application/invoicing"
	"github.com/gofiber/fiber/v2"
)

// InvoiceHandler facturas de compra: alta, consulta y borrado con sus movimientos.
type InvoiceHandler struct {
	uc *invoicing.InvoiceUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *invoicing.InvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// List godoc
// @Summary      Listar facturas (fecha descendente)
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        supplierId  query  int  false  "Filtrar por proveedor"
// @Success      200  {array}  dto.InvoiceResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	supplierID, err := queryID(c, "supplierId")
	if err != nil {
		return err
	}
	out, err := h.uc.ListInvoices(c.UserContext(), supplierID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener factura con líneas
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.uc.GetInvoice(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar factura de compra (entrada al almacén)
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "Cabecera y líneas"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.CreateInvoice(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Delete godoc
// @Summary      Eliminar factura, sus líneas y sus movimientos
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la factura"
// @Success      200  {object}  dto.DeleteInvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.uc.DeleteInvoice(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// DeleteItem godoc
// @Summary      Eliminar una línea de factura y su movimiento
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id      path  int  true  "ID de la factura"
// @Param        itemId  path  int  true  "ID de la línea"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/items/{itemId} [delete]
func (h *InvoiceHandler) DeleteItem(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	itemID, err := paramID(c, "itemId")
	if err != nil {
		return err
	}
	out, err := h.uc.DeleteInvoiceItem(c.UserContext(), id, itemID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
