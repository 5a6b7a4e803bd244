// Package pdf genera el reporte imprimible del pipeline de prospectos.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Inmobiliaria            │  Pipeline + Fecha        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: una celda por etapa (total + presupuesto)         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ETAPA n: Nombre | Email | Teléfono | Presupuesto           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL GENERAL                                              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

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

	"github.com/jhoicas/Inmobiliaria-crm/internal/application/dto"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// PipelineReport implementa usecase.PipelineReportGenerator usando Maroto v2.
type PipelineReport struct {
	now func() time.Time
}

// NewPipelineReport construye el generador.
func NewPipelineReport() *PipelineReport { return &PipelineReport{now: time.Now} }

// GeneratePipelineReport genera el PDF del tablero y devuelve sus bytes.
func (g *PipelineReport) GeneratePipelineReport(ctx context.Context, tenantName string, board *dto.PipelineResponse) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if board == nil {
		board = &dto.PipelineResponse{}
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Pipeline de prospectos", true).
		WithAuthor(nonEmpty(tenantName, "CRM"), true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(tenantName, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	if len(board.Columns) > 0 {
		m.AddRows(summaryRow(board.Columns))
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	}
	for _, c := range board.Columns {
		if c.Count == 0 {
			continue
		}
		m.AddRows(stageRows(c)...)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(totalRow(board.Columns))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(tenantName string, at time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(nonEmpty(tenantName, "-"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New("PIPELINE DE PROSPECTOS", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+at.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

// summaryRow una celda por etapa; 12 columnas de grilla repartidas entre las etapas.
func summaryRow(cols []dto.PipelineColumn) core.Row {
	width := 12 / len(cols)
	if width == 0 {
		width = 1
	}
	cells := make([]core.Col, 0, len(cols))
	for _, c := range cols {
		cells = append(cells, col.New(width).Add(
			text.New(c.Label, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Center, Top: 1}),
			text.New(fmt.Sprintf("%d", c.Count), props.Text{Size: 11, Align: align.Center, Top: 6, Color: colorPrimary}),
			text.New("$"+formatMoney(c.Budget), props.Text{Size: 7, Align: align.Center, Top: 13, Color: colorGray}),
		))
	}
	return row.New(20).Add(cells...)
}

func stageRows(c dto.PipelineColumn) []core.Row {
	rows := []core.Row{
		row.New(8).Add(col.New(12).Add(
			text.New(fmt.Sprintf("%s (%d)", strings.ToUpper(c.Label), c.Count), props.Text{
				Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2,
			}),
		)),
	}
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Align: a, Top: 1}))
	}
	rows = append(rows, row.New(6).Add(
		h("Nombre", 4, align.Left),
		h("Email", 3, align.Left),
		h("Teléfono", 2, align.Left),
		h("Presupuesto", 3, align.Right),
	))
	for _, p := range c.Prospects {
		rows = append(rows, row.New(6).Add(
			col.New(4).Add(text.New(p.Name, props.Text{Size: 8, Top: 1})),
			col.New(3).Add(text.New(nonEmpty(p.Email, "-"), props.Text{Size: 8, Top: 1, Color: colorGray})),
			col.New(2).Add(text.New(nonEmpty(p.Phone, "-"), props.Text{Size: 8, Top: 1, Color: colorGray})),
			col.New(3).Add(text.New("$"+formatMoney(p.Budget), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	// tablero truncado: el total de la columna incluye prospectos no listados
	if rest := c.Count - len(c.Prospects); rest > 0 {
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New(fmt.Sprintf("... y %d más", rest), props.Text{Size: 8, Top: 1, Color: colorGray}),
		)))
	}
	return rows
}

func totalRow(cols []dto.PipelineColumn) core.Row {
	count := 0
	total := decimal.Zero
	for _, c := range cols {
		count += c.Count
		total = total.Add(c.Budget)
	}
	style := props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1}
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New(fmt.Sprintf("TOTAL (%d):", count), style)),
		col.New(3).Add(text.New("$"+formatMoney(total), style)),
	)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney redondea a entero e inserta puntos de miles.
// Ej: 25000 → "25.000", -1000000 → "-1.000.000"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(0)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
