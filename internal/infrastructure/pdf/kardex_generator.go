// Package pdf genera el kardex (historial de movimientos de stock) de un
// producto como documento PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del producto  │  Fecha de generación        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FICHA: Categoría / Proveedor / Precio / Stock actual       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Cantidad | Anterior | Resultante     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
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

	"github.com/jhoicas/sistema-inventario/internal/application/movimientos"
	"github.com/jhoicas/sistema-inventario/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorGreen   = &props.Color{Red: 0, Green: 128, Blue: 64}
	colorRed     = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// KardexPDFGenerator implementa movimientos.KardexPDFGenerator usando Maroto v2.
type KardexPDFGenerator struct{}

// NewKardexPDFGenerator construye el generador.
func NewKardexPDFGenerator() *KardexPDFGenerator { return &KardexPDFGenerator{} }

// GenerateKardexPDF genera el PDF del kardex y devuelve sus bytes.
func (g *KardexPDFGenerator) GenerateKardexPDF(
	_ context.Context,
	producto *entity.Producto,
	movs []*entity.MovimientoStock,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Kardex de producto", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(producto))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(fichaRow(producto))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(movs) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin movimientos registrados.", props.Text{
				Size: 8, Align: align.Center, Color: colorGray, Top: 2,
			}),
		)))
	}
	for _, r := range tableMovimientoRows(movs) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre del producto (izq) y fecha de generación (der).
func headerRow(producto *entity.Producto) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("KARDEX DE MOVIMIENTOS", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(producto.Nombre, props.Text{
				Style: fontstyle.Bold, Size: 13, Top: 6,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+time.Now().Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 1, Color: colorGray,
			}),
		),
	)
}

// fichaRow: ficha resumida del producto.
func fichaRow(producto *entity.Producto) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Categoría: %s   |   Proveedor: %s",
				producto.Categoria,
				nonEmpty(producto.Proveedor, "—"),
			), props.Text{Size: 8, Top: 1, Color: colorGray}),
			text.New(fmt.Sprintf("Precio: $%s   |   Stock actual: %d unidades",
				producto.Precio.StringFixed(2), producto.Stock,
			), props.Text{Size: 8, Top: 6, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de movimientos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 3, align.Left),
		h("Tipo", 2, align.Center),
		h("Cantidad", 2, align.Right),
		h("Stock anterior", 2, align.Right),
		h("Stock resultante", 3, align.Right),
	)
}

// tableMovimientoRows: una fila por movimiento, entradas en verde y salidas en rojo.
func tableMovimientoRows(movs []*entity.MovimientoStock) []core.Row {
	result := make([]core.Row, 0, len(movs))
	for _, m := range movs {
		tipoColor := colorGreen
		signo := "+"
		if m.Tipo == entity.TipoSalida {
			tipoColor = colorRed
			signo = "-"
		}
		result = append(result, row.New(7).Add(
			col.New(3).Add(text.New(
				m.Fecha.Format("02/01/2006 15:04"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				m.Tipo,
				props.Text{Size: 8, Align: align.Center, Top: 1, Style: fontstyle.Bold, Color: tipoColor},
			)),
			col.New(2).Add(text.New(
				fmt.Sprintf("%s%d", signo, m.Cantidad),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1, Color: tipoColor},
			)),
			col.New(2).Add(text.New(
				fmt.Sprintf("%d", m.StockAnterior),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				fmt.Sprintf("%d", m.StockResultante),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

var _ movimientos.KardexPDFGenerator = (*KardexPDFGenerator)(nil)
