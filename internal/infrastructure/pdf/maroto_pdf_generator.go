// Package pdf genera el informe de valoración de un objeto de construcción en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Objeto + dirección  │  Estado + fecha de emisión   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  POR SECCIÓN: nombre + tipo                 valor sección   │
//	│    TABLA: Código | Material | Ud. | Cant. | Precio | Valor  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL DEL OBJETO                                           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/GukMaksim/construction-inventory/internal/application/analytics"
	"github.com/GukMaksim/construction-inventory/internal/application/dto"
	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
)

var _ analytics.SiteReportPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorNeg     = &props.Color{Red: 170, Green: 20, Blue: 20}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa analytics.SiteReportPDFGenerator usando Maroto v2.
// TODO: registrar una fuente TTF con cirílico (config.WithCustomFonts); helvetica solo cubre latin-1.
type MarotoPDFGenerator struct {
	now func() time.Time
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{now: time.Now} }

// GenerateSiteReportPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateSiteReportPDF(_ context.Context, report *dto.SiteReportResponse) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("pdf: informe vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Informe de objeto "+report.SiteName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	if len(report.Sections) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("El objeto no tiene secciones.", props.Text{Size: 9, Top: 3, Color: colorGray}),
		)))
	}
	for _, sec := range report.Sections {
		m.AddRows(sectionRows(sec)...)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(report.TotalValue))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: objeto y dirección (izq), estado y fecha de emisión (der).
func headerRow(r *dto.SiteReportResponse, issued time.Time) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New(r.SiteName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(r.SiteAddress, "-"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("INFORME DE VALORACIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Estado: "+r.Status, props.Text{
				Size: 8, Align: align.Right, Top: 7,
			}),
			text.New("Emitido: "+issued.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
		),
	)
}

func sectionRows(sec dto.SectionReportResponse) []core.Row {
	rows := []core.Row{
		row.New(9).Add(
			col.New(8).Add(text.New(fmt.Sprintf("%s (%s)", sec.Name, sec.Type), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 3,
			})),
			col.New(4).Add(text.New(formatMoney(sec.TotalValue), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 3, Color: valueColor(sec.TotalValue),
			})),
		),
	}
	if len(sec.Products) == 0 {
		return append(rows, row.New(6).Add(col.New(12).Add(
			text.New("Sin materiales con saldo.", props.Text{Size: 8, Top: 1, Left: 2, Color: colorGray}),
		)))
	}
	rows = append(rows, tableHeaderRow())
	for _, p := range sec.Products {
		rows = append(rows, row.New(6).Add(
			col.New(2).Add(text.New(p.Code, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(p.Name, props.Text{Size: 8, Top: 1})),
			col.New(1).Add(text.New(p.Unit, props.Text{Size: 8, Top: 1, Align: align.Center})),
			col.New(1).Add(text.New(p.Quantity.String(), props.Text{Size: 8, Top: 1, Align: align.Right})),
			col.New(2).Add(text.New(formatMoney(p.Price), props.Text{Size: 8, Top: 1, Align: align.Right})),
			col.New(2).Add(text.New(formatMoney(p.TotalValue), props.Text{Size: 8, Top: 1, Align: align.Right, Right: 1})),
		))
	}
	return rows
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(6).Add(
		h("Código", 2, align.Left),
		h("Material", 4, align.Left),
		h("Ud.", 1, align.Center),
		h("Cant.", 1, align.Right),
		h("Precio", 2, align.Right),
		h("Valor", 2, align.Right),
	)
}

func totalRow(total decimal.Decimal) core.Row {
	return row.New(12).Add(
		col.New(8).Add(text.New("TOTAL DEL OBJETO:", props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: colorPrimary, Top: 3, Right: 2,
		})),
		col.New(4).Add(text.New(formatMoney(total), props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: valueColor(total), Top: 3, Right: 1,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func valueColor(v decimal.Decimal) *props.Color {
	if v.IsNegative() {
		return colorNeg
	}
	return colorPrimary
}

// formatMoney dos decimales, espacio como separador de miles y coma decimal.
// Ej: 1234567.5 → "1 234 567,50", -95 → "-95,00"
func formatMoney(v decimal.Decimal) string {
	s := v.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + "," + frac
}
