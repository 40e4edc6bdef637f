// Package xmlexport serializa el informe de movimientos a XML de intercambio (etree).
package xmlexport

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/GukMaksim/construction-inventory/internal/application/analytics"
	"github.com/GukMaksim/construction-inventory/internal/application/dto"
	"github.com/beevik/etree"
)

var _ analytics.MovementsXMLGenerator = (*Generator)(nil)

const dateLayout = "2006-01-02"

// Generator implementa analytics.MovementsXMLGenerator.
type Generator struct {
	now func() time.Time
}

// NewGenerator construye el generador.
func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// MovementsXML genera <MovementsReport> con un <Product> por material y sus <Movement>.
func (g *Generator) MovementsXML(_ context.Context, report *dto.MovementsReportResponse) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("xml: informe vacío")
	}
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("MovementsReport")
	root.CreateAttr("generatedAt", g.now().UTC().Format(time.RFC3339))
	period := root.CreateElement("Period")
	if report.StartDate != nil {
		period.CreateAttr("from", report.StartDate.Format(dateLayout))
	}
	if report.EndDate != nil {
		period.CreateAttr("to", report.EndDate.Format(dateLayout))
	}

	products := root.CreateElement("Products")
	for _, p := range report.Products {
		pe := products.CreateElement("Product")
		pe.CreateAttr("id", strconv.FormatInt(p.ProductID, 10))
		pe.CreateAttr("code", p.Code)
		pe.CreateElement("Name").SetText(p.Name)
		pe.CreateElement("Unit").SetText(p.Unit)
		pe.CreateElement("TotalIn").SetText(p.TotalIn.String())
		pe.CreateElement("TotalOut").SetText(p.TotalOut.String())

		movements := pe.CreateElement("Movements")
		for _, m := range p.Movements {
			me := movements.CreateElement("Movement")
			me.CreateAttr("id", strconv.FormatInt(m.ID, 10))
			me.CreateAttr("type", m.Type)
			me.CreateElement("Date").SetText(m.Date.UTC().Format(time.RFC3339))
			me.CreateElement("Quantity").SetText(m.Quantity.String())
			me.CreateElement("DocumentType").SetText(m.DocumentType)
			loc := me.CreateElement("Location")
			if m.Section == nil {
				loc.CreateAttr("kind", "WAREHOUSE")
			} else {
				loc.CreateAttr("kind", "SECTION")
				loc.CreateAttr("sectionId", strconv.FormatInt(m.Section.ID, 10))
				loc.CreateAttr("siteId", strconv.FormatInt(m.Section.SiteID, 10))
				loc.SetText(m.Section.SiteName + " - " + m.Section.Name)
			}
			if m.Comment != "" {
				me.CreateElement("Comment").SetText(m.Comment)
			}
		}
	}

	doc.Indent(2)
	var out bytes.Buffer
	if _, err := doc.WriteTo(&out); err != nil {
		return nil, fmt.Errorf("xml: escribir documento: %w", err)
	}
	return out.Bytes(), nil
}
