package http

import (
	"github.com/GukMaksim/construction-inventory/internal/application/dto"
	"github.com/GukMaksim/construction-inventory/internal/application/inventory"
	"github.com/gofiber/fiber/v2"
)

// StockHandler saldos y traspasos almacén/sección.
type StockHandler struct {
	stock    *inventory.StockUseCase
	transfer *inventory.TransferUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(stock *inventory.StockUseCase, transfer *inventory.TransferUseCase) *StockHandler {
	return &StockHandler{stock: stock, transfer: transfer}
}

// Status godoc
// @Summary      Stock total y por ubicación de cada producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StockStatusResponse
// @Router       /api/stock/status [get]
func (h *StockHandler) Status(c *fiber.Ctx) error {
	out, err := h.stock.Status(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Transfer godoc
// @Summary      Registrar traspaso de material a (IN) o desde (OUT) una sección
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "Traspaso"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/transfer [post]
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.transfer.Transfer(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// LowStock godoc
// @Summary      Productos en o bajo su stock mínimo
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LowStockItemResponse
// @Router       /api/stock/low-stock [get]
func (h *StockHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.stock.LowStock(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}
