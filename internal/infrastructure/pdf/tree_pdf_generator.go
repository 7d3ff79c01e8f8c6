// Package pdf genera el reporte PDF del árbol de categorías.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha de generación │ Totales             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Categoría (sangrada por nivel) | Nivel | Artículos  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: total de categorías y asociaciones                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
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

	"github.com/jhoicas/Categorias-api/internal/application/usecase"
	"github.com/jhoicas/Categorias-api/internal/domain/tree"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// indentPerLevel sangría en mm por cada nivel del árbol.
const indentPerLevel = 5.0

// ── Generator ─────────────────────────────────────────────────────────────────

var _ usecase.TreePDFGenerator = (*MarotoTreePDFGenerator)(nil)

// MarotoTreePDFGenerator implementa usecase.TreePDFGenerator usando Maroto v2.
type MarotoTreePDFGenerator struct {
	title string
	now   func() time.Time
}

// NewMarotoTreePDFGenerator construye el generador. title aparece en el encabezado y en los metadatos.
func NewMarotoTreePDFGenerator(title string) *MarotoTreePDFGenerator {
	if title == "" {
		title = "Árbol de categorías"
	}
	return &MarotoTreePDFGenerator{title: title, now: time.Now}
}

// GenerateTreePDF genera el PDF y devuelve sus bytes.
func (g *MarotoTreePDFGenerator) GenerateTreePDF(
	_ context.Context,
	forest []*tree.Node,
	itemCounts map[int64]int,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(g.title, true).
		Build()

	m := maroto.New(cfg)

	categories, links := 0, 0
	tree.Walk(forest, func(n *tree.Node, _ int) {
		categories++
		links += itemCounts[n.Category.ID]
	})

	m.AddRows(g.headerRow(categories))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())

	if categories == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(text.New("Sin categorías registradas.", props.Text{
			Size: 9, Top: 2, Color: colorGray, Align: align.Center,
		}))))
	}
	tree.Walk(forest, func(n *tree.Node, depth int) {
		m.AddRows(nodeRow(n, depth, itemCounts[n.Category.ID]))
	})

	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(categories, links))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoTreePDFGenerator) headerRow(categories int) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(g.title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+g.now().Format("02/01/2006 15:04"), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New(strconv.Itoa(categories)+" categorías", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 4,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Categoría", 8, align.Left),
		h("Nivel", 2, align.Center),
		h("Artículos", 2, align.Right),
	)
}

// nodeRow una fila por categoría; las raíces van en negrita.
func nodeRow(n *tree.Node, depth, items int) core.Row {
	style := fontstyle.Normal
	if depth == 0 {
		style = fontstyle.Bold
	}
	return row.New(6).Add(
		col.New(8).Add(text.New(n.Category.Name, props.Text{
			Size: 8, Style: style, Top: 1, Left: 1 + float64(depth)*indentPerLevel,
		})),
		col.New(2).Add(text.New(strconv.Itoa(depth), props.Text{
			Size: 8, Align: align.Center, Top: 1, Color: colorGray,
		})),
		col.New(2).Add(text.New(strconv.Itoa(items), props.Text{
			Size: 8, Align: align.Right, Top: 1, Right: 1,
		})),
	)
}

func footerRow(categories, links int) core.Row {
	return row.New(8).Add(col.New(12).Add(text.New(
		fmt.Sprintf("Total: %d categorías, %d asociaciones con artículos", categories, links),
		props.Text{Size: 7, Top: 2, Color: colorGray, Align: align.Right},
	)))
}
