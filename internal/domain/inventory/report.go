package inventory

import (
	"sort"
	"time"

	"github.com/GukMaksim/construction-inventory/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SectionProduct producto con saldo positivo dentro de una sección.
type SectionProduct struct {
	Product    *entity.Product
	Quantity   decimal.Decimal
	TotalValue decimal.Decimal
}

// SectionReport valoración de una sección.
type SectionReport struct {
	ID         int64
	Name       string
	Type       string
	TotalValue decimal.Decimal
	Products   []SectionProduct
}

// SiteReport valoración de un objeto de obra por secciones.
type SiteReport struct {
	Site       *entity.ConstructionSite
	TotalValue decimal.Decimal
	Sections   []SectionReport
}

// BuildSiteReport valora cada sección del objeto al precio de lista actual.
// El valor de la sección incluye todos los saldos (también negativos); solo se listan los productos con saldo > 0.
func BuildSiteReport(site *entity.ConstructionSite, sections []*entity.Section, movements []*entity.StockMovement, products map[int64]*entity.Product) SiteReport {
	report := SiteReport{Site: site, TotalValue: decimal.Zero, Sections: []SectionReport{}}

	bySection := make(map[int64][]*entity.StockMovement)
	for _, m := range movements {
		if m.SectionID != nil {
			bySection[*m.SectionID] = append(bySection[*m.SectionID], m)
		}
	}

	for _, sec := range sections {
		if sec.ConstructionSiteID != site.ID {
			continue
		}
		sr := SectionReport{ID: sec.ID, Name: sec.Name, Type: sec.Type, TotalValue: decimal.Zero, Products: []SectionProduct{}}
		qty := make(map[int64]decimal.Decimal)
		for _, m := range bySection[sec.ID] {
			qty[m.ProductID] = qty[m.ProductID].Add(SignedQuantity(m))
		}
		for productID, q := range qty {
			p, ok := products[productID]
			if !ok {
				continue
			}
			value := q.Mul(p.Price)
			sr.TotalValue = sr.TotalValue.Add(value)
			if q.GreaterThan(decimal.Zero) {
				sr.Products = append(sr.Products, SectionProduct{Product: p, Quantity: q, TotalValue: value})
			}
		}
		sort.Slice(sr.Products, func(i, j int) bool {
			return sr.Products[i].Product.Code < sr.Products[j].Product.Code
		})
		report.TotalValue = report.TotalValue.Add(sr.TotalValue)
		report.Sections = append(report.Sections, sr)
	}
	sort.Slice(report.Sections, func(i, j int) bool { return report.Sections[i].ID < report.Sections[j].ID })
	return report
}

// Period intervalo cerrado [From, To]; un extremo nil no acota.
type Period struct {
	From *time.Time
	To   *time.Time
}

// Contains indica si t cae en el intervalo (extremos incluidos).
func (p Period) Contains(t time.Time) bool {
	if p.From != nil && t.Before(*p.From) {
		return false
	}
	if p.To != nil && t.After(*p.To) {
		return false
	}
	return true
}

// MovementLine movimiento dentro del informe por periodo.
type MovementLine struct {
	ID           int64
	Date         time.Time
	Type         string
	Quantity     decimal.Decimal
	Section      *SectionRef
	DocumentType string
	Comment      string
}

// ProductMovements movimientos de un producto en el periodo.
type ProductMovements struct {
	Product   *entity.Product
	TotalIn   decimal.Decimal
	TotalOut  decimal.Decimal
	Movements []MovementLine
}

// BuildMovementsReport agrupa por producto los movimientos del periodo.
// Grupos ordenados por código de producto; movimientos por fecha ascendente.
func BuildMovementsReport(movements []*entity.StockMovement, products map[int64]*entity.Product, sections SectionIndex, period Period) []ProductMovements {
	groups := make(map[int64]*ProductMovements)
	for _, m := range movements {
		if !period.Contains(m.Date) {
			continue
		}
		p, ok := products[m.ProductID]
		if !ok {
			continue
		}
		g, ok := groups[m.ProductID]
		if !ok {
			g = &ProductMovements{Product: p, TotalIn: decimal.Zero, TotalOut: decimal.Zero, Movements: []MovementLine{}}
			groups[m.ProductID] = g
		}
		if m.Type == entity.MovementTypeOUT {
			g.TotalOut = g.TotalOut.Add(m.Quantity)
		} else {
			g.TotalIn = g.TotalIn.Add(m.Quantity)
		}
		line := MovementLine{
			ID:           m.ID,
			Date:         m.Date,
			Type:         m.Type,
			Quantity:     m.Quantity,
			DocumentType: m.DocumentType,
			Comment:      m.Comment,
		}
		if m.SectionID != nil {
			ref := sections.Lookup(*m.SectionID)
			line.Section = &ref
		}
		g.Movements = append(g.Movements, line)
	}

	out := make([]ProductMovements, 0, len(groups))
	for _, g := range groups {
		sort.SliceStable(g.Movements, func(i, j int) bool {
			a, b := g.Movements[i], g.Movements[j]
			if a.Date.Equal(b.Date) {
				return a.ID < b.ID
			}
			return a.Date.Before(b.Date)
		})
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Product.Code < out[j].Product.Code })
	return out
}

// LowStockItem producto cuyo saldo total llegó al mínimo.
type LowStockItem struct {
	Product      *entity.Product
	CurrentStock decimal.Decimal
	Value        decimal.Decimal
}

// BuildLowStockReport incluye los productos con saldo total <= MinQuantity.
// El saldo considera todos los movimientos; el valor puede ser negativo.
func BuildLowStockReport(products []*entity.Product, movements []*entity.StockMovement) []LowStockItem {
	byProduct := GroupByProduct(movements)
	out := []LowStockItem{}
	for _, p := range products {
		stock := CurrentStock(byProduct[p.ID])
		if stock.GreaterThan(p.MinQuantity) {
			continue
		}
		out = append(out, LowStockItem{Product: p, CurrentStock: stock, Value: stock.Mul(p.Price)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Product.Code < out[j].Product.Code })
	return out
}

// Summary indicadores generales.
type Summary struct {
	TotalSites      int
	ActiveSections  int
	SitesValue      decimal.Decimal
	TotalStockValue decimal.Decimal
}

// BuildSummary cuenta objetos ACTIVE y valora sus secciones; TotalStockValue valora todo el libro.
func BuildSummary(sites []*entity.ConstructionSite, sections []*entity.Section, movements []*entity.StockMovement, products map[int64]*entity.Product) Summary {
	s := Summary{SitesValue: decimal.Zero, TotalStockValue: decimal.Zero}

	active := make(map[int64]bool)
	for _, site := range sites {
		if site.Status == entity.SiteStatusActive {
			active[site.ID] = true
			s.TotalSites++
		}
	}
	activeSections := make(map[int64]bool)
	for _, sec := range sections {
		if active[sec.ConstructionSiteID] {
			activeSections[sec.ID] = true
			s.ActiveSections++
		}
	}

	for _, m := range movements {
		p, ok := products[m.ProductID]
		if !ok {
			continue
		}
		value := SignedQuantity(m).Mul(p.Price)
		s.TotalStockValue = s.TotalStockValue.Add(value)
		if m.SectionID != nil && activeSections[*m.SectionID] {
			s.SitesValue = s.SitesValue.Add(value)
		}
	}
	return s
}

// ProductMap indexa productos por ID.
func ProductMap(products []*entity.Product) map[int64]*entity.Product {
	m := make(map[int64]*entity.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return m
}
