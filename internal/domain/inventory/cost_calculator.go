package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost implementa el costo promedio ponderado (servicio de dominio).
// Costo = Σ(CantEntrada * PrecioEntrada) / Σ(CantEntrada), redondeado a 2 decimales (half-up).
// Sin entradas devuelve el precio de lista, también redondeado.
func WeightedAverageCost(totalValue, totalQty, listPrice decimal.Decimal) decimal.Decimal {
	if totalQty.LessThanOrEqual(decimal.Zero) {
		return listPrice.Round(2)
	}
	return totalValue.Div(totalQty).Round(2)
}
