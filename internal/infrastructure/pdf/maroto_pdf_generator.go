// Package pdf genera el reporte imprimible de lotes por vencer.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + ventana en días  │  Fecha + usuario       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: lotes / críticos / unidades / valor en riesgo     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | SKU | Lote | Ubicación | Cant | Vence    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda de severidades                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/qualistock/internal/domain/entity"
	"github.com/jhoicas/qualistock/internal/domain/inventory"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary  = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorCritical = &props.Color{Red: 190, Green: 30, Blue: 45}
	colorWarning  = &props.Color{Red: 200, Green: 120, Blue: 0}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator genera el reporte de vencimientos con Maroto v2.
type MarotoPDFGenerator struct {
	printer *message.Printer
}

// NewMarotoPDFGenerator construye el generador. Los números se formatean en inglés
// (separador de miles ","), igual que el resto del dashboard.
func NewMarotoPDFGenerator() *MarotoPDFGenerator {
	return &MarotoPDFGenerator{printer: message.NewPrinter(language.English)}
}

// GenerateExpirationReport genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateExpirationReport(_ context.Context, report entity.ExpirationReport) ([]byte, error) {
	title := report.Title
	if title == "" {
		title = "Expiration Report"
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(nonEmpty(report.GeneratedBy, "QualiStock"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(title, report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.summaryRow(report.Items))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(report.Items) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New(fmt.Sprintf("No items expire within %d days.", report.Days), props.Text{
				Size: 9, Align: align.Center, Top: 3, Color: colorGray,
			}),
		)))
	}
	for _, r := range g.tableDetailRows(report.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoPDFGenerator) headerRow(title string, report entity.ExpirationReport) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(g.printer.Sprintf("Items expiring within %d days", report.Days), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("QUALISTOCK", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Generated: "+report.GeneratedAt.Format("2006-01-02 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 7, Color: colorGray,
			}),
			text.New("By: "+nonEmpty(report.GeneratedBy, "-"), props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
		),
	)
}

func (g *MarotoPDFGenerator) summaryRow(items []entity.ExpiringItem) core.Row {
	var critical, units int
	value := decimal.Zero
	for _, it := range items {
		if inventory.ExpirationSeverity(it.DaysRemaining) == inventory.SeverityCritical {
			critical++
		}
		units += it.Quantity
		value = value.Add(inventory.LineValue(it.Quantity, it.UnitPrice))
	}
	cell := func(label, v string) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(v, props.Text{Size: 11, Top: 6}),
		)
	}
	return row.New(14).Add(
		cell("BATCHES", g.printer.Sprintf("%d", len(items))),
		cell("CRITICAL", g.printer.Sprintf("%d", critical)),
		cell("UNITS", g.printer.Sprintf("%d", units)),
		cell("VALUE AT RISK", "$"+g.formatMoney(value)),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Product", 3, align.Left),
		h("SKU", 2, align.Left),
		h("Batch", 2, align.Left),
		h("Location", 2, align.Left),
		h("Qty", 1, align.Right),
		h("Expires", 2, align.Right),
	)
}

func (g *MarotoPDFGenerator) tableDetailRows(items []entity.ExpiringItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		status := props.Text{Size: 7, Align: align.Right, Top: 5, Right: 1, Color: colorGray}
		switch inventory.ExpirationSeverity(it.DaysRemaining) {
		case inventory.SeverityCritical:
			status.Color, status.Style = colorCritical, fontstyle.Bold
		case inventory.SeverityWarning:
			status.Color = colorWarning
		}
		result = append(result, row.New(10).Add(
			col.New(3).Add(text.New(it.ProductName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(nonEmpty(it.SKU, "-"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(nonEmpty(it.BatchNumber, "-"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(nonEmpty(it.Location, "-"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(g.printer.Sprintf("%d", it.Quantity), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(
				text.New(it.ExpirationDate.Format("2006-01-02"), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}),
				text.New(inventory.ExpirationStatus(it.DaysRemaining), status),
			),
		))
	}
	return result
}

func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(
			fmt.Sprintf("Critical: %d days or less. Warning: %d days or less.",
				inventory.CriticalDays, inventory.WarningDays),
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney separador de miles y dos decimales. Ej: 1234.5 → "1,234.50"
func (g *MarotoPDFGenerator) formatMoney(d decimal.Decimal) string {
	return g.printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}
