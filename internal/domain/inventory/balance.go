// Package inventory contiene la lógica pura de derivación de stock: saldos por producto y ubicación,
// costo promedio ponderado e informes. Nada aquí consulta ni modifica la persistencia.
package inventory

import (
	"fmt"
	"sort"

	"github.com/GukMaksim/construction-inventory/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Ubicación implícita del almacén (movimientos sin sección).
const (
	WarehouseKey   = "warehouse"
	WarehouseLabel = "Склад"
)

// SectionRef datos de una sección necesarios para etiquetar ubicaciones.
type SectionRef struct {
	ID       int64
	Name     string
	Type     string
	SiteID   int64
	SiteName string
}

// Label etiqueta legible "<objeto> - <sección>".
func (s SectionRef) Label() string {
	return s.SiteName + " - " + s.Name
}

// SectionIndex búsqueda de secciones por ID.
type SectionIndex map[int64]SectionRef

// NewSectionIndex arma el índice a partir de secciones y objetos.
func NewSectionIndex(sections []*entity.Section, sites []*entity.ConstructionSite) SectionIndex {
	siteNames := make(map[int64]string, len(sites))
	for _, s := range sites {
		siteNames[s.ID] = s.Name
	}
	idx := make(SectionIndex, len(sections))
	for _, s := range sections {
		idx[s.ID] = SectionRef{
			ID:       s.ID,
			Name:     s.Name,
			Type:     s.Type,
			SiteID:   s.ConstructionSiteID,
			SiteName: siteNames[s.ConstructionSiteID],
		}
	}
	return idx
}

// Lookup devuelve la sección; si no está indexada arma una referencia mínima con el ID.
func (idx SectionIndex) Lookup(id int64) SectionRef {
	if ref, ok := idx[id]; ok {
		return ref
	}
	return SectionRef{ID: id, Name: fmt.Sprintf("#%d", id)}
}

// LocationKey clave de agrupación de un movimiento: "section-<id>" o "warehouse".
func LocationKey(m *entity.StockMovement) string {
	if m.SectionID == nil {
		return WarehouseKey
	}
	return fmt.Sprintf("section-%d", *m.SectionID)
}

// LocationStock saldo de un producto en una ubicación.
type LocationStock struct {
	Key       string
	SectionID *int64
	Name      string
	Quantity  decimal.Decimal
}

// ProductBalance saldo derivado de un producto.
type ProductBalance struct {
	ProductID       int64
	CurrentStock    decimal.Decimal
	TotalIn         decimal.Decimal
	TotalOut        decimal.Decimal
	AvgPrice        decimal.Decimal
	StockByLocation []LocationStock
}

// SignedQuantity cantidad con signo: positiva para IN, negativa para OUT.
func SignedQuantity(m *entity.StockMovement) decimal.Decimal {
	if m.Type == entity.MovementTypeOUT {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// CurrentStock suma con signo de todos los movimientos recibidos (sin filtrar por producto ni ubicación).
func CurrentStock(movements []*entity.StockMovement) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movements {
		total = total.Add(SignedQuantity(m))
	}
	return total
}

// Calculate deriva el saldo de un producto. Los movimientos de otros productos se ignoran,
// así que se puede pasar el libro completo o un subconjunto filtrado por fecha.
func Calculate(product *entity.Product, movements []*entity.StockMovement, sections SectionIndex) ProductBalance {
	bal := ProductBalance{
		ProductID:       product.ID,
		CurrentStock:    decimal.Zero,
		TotalIn:         decimal.Zero,
		TotalOut:        decimal.Zero,
		StockByLocation: []LocationStock{},
	}
	inValue := decimal.Zero
	buckets := make(map[string]*LocationStock)
	for _, m := range movements {
		if m.ProductID != product.ID {
			continue
		}
		signed := SignedQuantity(m)
		bal.CurrentStock = bal.CurrentStock.Add(signed)
		if m.Type == entity.MovementTypeOUT {
			bal.TotalOut = bal.TotalOut.Add(m.Quantity)
		} else {
			bal.TotalIn = bal.TotalIn.Add(m.Quantity)
			inValue = inValue.Add(m.Quantity.Mul(m.Price))
		}

		key := LocationKey(m)
		b, ok := buckets[key]
		if !ok {
			b = &LocationStock{Key: key, Name: WarehouseLabel, Quantity: decimal.Zero}
			if m.SectionID != nil {
				id := *m.SectionID
				b.SectionID = &id
				b.Name = sections.Lookup(id).Label()
			}
			buckets[key] = b
		}
		b.Quantity = b.Quantity.Add(signed)
	}
	bal.AvgPrice = WeightedAverageCost(inValue, bal.TotalIn, product.Price)

	for _, b := range buckets {
		bal.StockByLocation = append(bal.StockByLocation, *b)
	}
	sortLocations(bal.StockByLocation)
	return bal
}

// CalculateAll deriva los saldos de todos los productos en una pasada de agrupación.
// Cada producto se calcula con Calculate, por lo que el resultado coincide exactamente
// con invocarlo producto a producto. Conserva el orden de products.
func CalculateAll(products []*entity.Product, movements []*entity.StockMovement, sections SectionIndex) []ProductBalance {
	byProduct := GroupByProduct(movements)
	out := make([]ProductBalance, 0, len(products))
	for _, p := range products {
		out = append(out, Calculate(p, byProduct[p.ID], sections))
	}
	return out
}

// GroupByProduct agrupa movimientos por producto conservando el orden de entrada.
func GroupByProduct(movements []*entity.StockMovement) map[int64][]*entity.StockMovement {
	byProduct := make(map[int64][]*entity.StockMovement)
	for _, m := range movements {
		byProduct[m.ProductID] = append(byProduct[m.ProductID], m)
	}
	return byProduct
}

// almacén primero, luego secciones por ID
func sortLocations(locs []LocationStock) {
	sort.Slice(locs, func(i, j int) bool {
		a, b := locs[i].SectionID, locs[j].SectionID
		if a == nil || b == nil {
			return a == nil && b != nil
		}
		return *a < *b
	})
}
