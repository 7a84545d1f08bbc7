// Package pdf genera los documentos imprimibles del almacén con Maroto v2:
// carteles de nombre y la planilla de stock.
//
// Cartel (una hoja A4 por nombre). Maroto no rota texto, así que el nombre va
// derecho en las dos mitades: la hoja se corta por la mitad y da dos
// carteles. Si se dobla como tienda, la mitad superior queda invertida.
//
//	┌──────────────────────────┐
//	│                          │
//	│        NOMBRE            │  mitad superior (derecho)
//	│                          │
//	├ ─ ─ ─ ─ ─ ─ mitad ─ ─ ─ ─┤
//	│                          │
//	│        NOMBRE            │  mitad inferior (derecho)
//	│                          │
//	└──────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontfamily"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	corentity "github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/johnfercher/maroto/v2/pkg/repository"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

const (
	// badgeFontFamily nombre con el que se registra la fuente TTF opcional.
	badgeFontFamily = "badge"

	badgeBaseSize = 180.0 // pt
	badgeMargin   = 10.0  // mm
	halfHeight    = 138.0 // mm, mitad de A4 menos márgenes
	ptToMM        = 25.4 / 72
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa badges.Generator y el reporte de stock.
type MarotoPDFGenerator struct {
	fonts  []*corentity.CustomFont
	family string
	now    func() time.Time
}

// NewMarotoPDFGenerator construye el generador. fontPath es opcional: una fuente TTF
// UTF-8 necesaria para nombres en chino u otros alfabetos fuera de Latin-1.
func NewMarotoPDFGenerator(fontPath string) (*MarotoPDFGenerator, error) {
	g := &MarotoPDFGenerator{family: fontfamily.Helvetica, now: time.Now}
	if fontPath == "" {
		return g, nil
	}
	fonts, err := repository.New().
		AddUTF8Font(badgeFontFamily, fontstyle.Normal, fontPath).
		AddUTF8Font(badgeFontFamily, fontstyle.Bold, fontPath).
		Load()
	if err != nil {
		return nil, fmt.Errorf("pdf: cargar fuente %s: %w", fontPath, err)
	}
	g.fonts, g.family = fonts, badgeFontFamily
	return g, nil
}

func (g *MarotoPDFGenerator) builder() config.Builder {
	b := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(badgeMargin).WithRightMargin(badgeMargin).
		WithTopMargin(badgeMargin).WithBottomMargin(badgeMargin)
	if len(g.fonts) > 0 {
		b = b.WithCustomFonts(g.fonts)
	}
	return b
}

// GenerateBadges una página por nombre con el nombre en ambas mitades.
func (g *MarotoPDFGenerator) GenerateBadges(ctx context.Context, names []string) ([]byte, error) {
	cfg := g.builder().
		WithDefaultFont(&props.Font{Family: g.family, Size: 12}).
		WithTitle("Carteles de nombre", true).
		Build()
	m := maroto.New(cfg)

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		label, size := BadgeLabel(name)
		m.AddPages(page.New().Add(
			g.badgeHalf(label, size),
			g.badgeHalf(label, size),
		))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar carteles: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *MarotoPDFGenerator) badgeHalf(label string, size float64) core.Row {
	top := (halfHeight - size*ptToMM) / 2
	if top < 0 {
		top = 0
	}
	return row.New(halfHeight).Add(col.New(12).Add(
		text.New(label, props.Text{
			Family: g.family,
			Style:  fontstyle.Bold,
			Size:   size,
			Align:  align.Center,
			Top:    top,
		}),
	))
}

// BadgeLabel texto y tamaño de fuente (pt) del cartel. Los nombres de dos caracteres
// se separan con un espacio; desde cuatro caracteres la fuente se reduce para que quepa.
func BadgeLabel(name string) (string, float64) {
	runes := []rune(name)
	if len(runes) == 2 {
		name = string(runes[0]) + " " + string(runes[1])
	}
	n := utf8.RuneCountInString(name)
	size := badgeBaseSize
	if n >= 4 {
		size = badgeBaseSize*3/float64(n) + 5
	}
	return name, size
}

// ── Reporte de stock ──────────────────────────────────────────────────────────

// InventoryReport planilla imprimible del stock actual (registros ya ordenados).
func (g *MarotoPDFGenerator) InventoryReport(ctx context.Context, records []entity.InventoryRecord) ([]byte, error) {
	cfg := g.builder().
		WithDefaultFont(&props.Font{Family: g.family, Size: 9}).
		WithTitle("Inventario", true).
		Build()
	m := maroto.New(cfg)

	total := 0
	for _, r := range records {
		total += r.Quantity
	}

	m.AddRows(g.reportHeaderRow(len(records), total))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.reportTableHeader())
	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m.AddRows(g.reportRow(r))
	}
	if len(records) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin artículos en stock", props.Text{Size: 9, Align: align.Center, Top: 3, Color: colorGray}),
		)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *MarotoPDFGenerator) reportHeaderRow(items, units int) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("INVENTARIO DEL ALMACÉN", props.Text{
				Family: g.family, Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%d artículos   |   %d unidades", items, units), props.Text{
				Family: g.family, Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+g.now().Format("2006-01-02 15:04"), props.Text{
				Family: g.family, Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

func (g *MarotoPDFGenerator) reportTableHeader() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Family: g.family, Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("ID", 1, align.Left),
		h("Artículo", 3, align.Left),
		h("Organización", 2, align.Left),
		h("Cant.", 1, align.Right),
		h("Última op.", 2, align.Left),
		h("Fecha", 2, align.Left),
		h("Nota", 1, align.Left),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func (g *MarotoPDFGenerator) reportRow(r entity.InventoryRecord) core.Row {
	cell := func(v string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(v, props.Text{
			Family: g.family, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(7).Add(
		cell(r.ItemID, 1, align.Left),
		cell(r.ItemName, 3, align.Left),
		cell(nonEmpty(r.Organization, "—"), 2, align.Left),
		cell(fmt.Sprint(r.Quantity), 1, align.Right),
		cell(string(r.LastOperationKind)+" · "+r.LastOperator, 2, align.Left),
		cell(r.LastOperationTime, 2, align.Left),
		cell(r.Note, 1, align.Left),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
