package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Code        string          `json:"code" validate:"required,min=1,max=100"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Barcode     string          `json:"barcode" validate:"omitempty,max=100"`
	Unit        string          `json:"unit" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	MinQuantity decimal.Decimal `json:"minQuantity"`
}

// UpdateProductRequest entrada para actualizar un producto. Campos nil no se modifican.
type UpdateProductRequest struct {
	Code        *string          `json:"code" validate:"omitempty,min=1,max=100"`
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Barcode     *string          `json:"barcode" validate:"omitempty,max=100"`
	Unit        *string          `json:"unit"`
	Price       *decimal.Decimal `json:"price"`
	MinQuantity *decimal.Decimal `json:"minQuantity"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          int64           `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Barcode     string          `json:"barcode"`
	Unit        string          `json:"unit"`
	Price       decimal.Decimal `json:"price"`
	MinQuantity decimal.Decimal `json:"minQuantity"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ProductWithStockResponse elemento del listado de productos con saldo y costo promedio.
type ProductWithStockResponse struct {
	ProductResponse
	Quantity decimal.Decimal `json:"quantity"`
	AvgPrice decimal.Decimal `json:"avgPrice"`
}

// ProductDetailResponse detalle de un producto con saldo por ubicación y últimos movimientos.
type ProductDetailResponse struct {
	ProductResponse
	CurrentStock    decimal.Decimal         `json:"currentStock"`
	AvgPrice        decimal.Decimal         `json:"avgPrice"`
	StockByLocation []LocationStockResponse `json:"stockByLocation"`
	RecentMovements []MovementResponse      `json:"recentMovements"`
}
