// Package pdf implementa la generación del reporte de Kardex en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Kardex de Bodega  │  Nombre bodega + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  BODEGA: Dirección / Ciudad                                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Producto | Clase | Movimiento | Cantidad     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: entradas / salidas / neto                          │
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

	appreport "github.com/jhoicas/Bodegas-api/internal/application/report"
	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 30, Blue: 30}
	colorGreen   = &props.Color{Red: 20, Green: 110, Blue: 50}
)

// Etiquetas legibles por tipo de movimiento.
var movementLabels = map[string]string{
	entity.MovementStockIn:      "Reposición",
	entity.MovementStockOut:     "Salida",
	entity.MovementTransfer:     "Traslado",
	entity.MovementReturnDefect: "Devolución (defecto)",
	entity.MovementReturnNormal: "Devolución",
}

var _ appreport.KardexPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa report.KardexPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateKardexPDF genera el PDF del kardex y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateKardexPDF(
	_ context.Context,
	warehouse *entity.Warehouse,
	entries []*entity.StockLogEntry,
	products map[string]*entity.Product,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Kardex de Bodega", true).
		WithAuthor(warehouse.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(warehouse))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(warehouseRow(warehouse))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Tabla de movimientos
	m.AddRows(tableHeaderRow())
	for _, r := range tableEntryRows(entries, products) {
		m.AddRows(r)
	}

	// Resumen
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(entries))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título del reporte (izq) y nombre de la bodega + fecha (der).
func headerRow(warehouse *entity.Warehouse) core.Row {
	fecha := time.Now().Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New("KARDEX DE MOVIMIENTOS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Registro de entradas y salidas de inventario", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("BODEGA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(warehouse.Name, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Generado: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// warehouseRow: datos de ubicación de la bodega.
func warehouseRow(warehouse *entity.Warehouse) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DE LA BODEGA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Dirección: %s   |   Ciudad: %s",
				nonEmpty(warehouse.Address, "—"),
				nonEmpty(warehouse.City, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
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
		h("Fecha", 2, align.Left),
		h("Producto", 4, align.Left),
		h("Clase", 2, align.Center),
		h("Movimiento", 2, align.Left),
		h("Cantidad", 2, align.Right),
	)
}

// tableEntryRows: una fila por registro del kardex, en rojo las salidas.
func tableEntryRows(entries []*entity.StockLogEntry, products map[string]*entity.Product) []core.Row {
	result := make([]core.Row, 0, len(entries))
	for _, e := range entries {
		name := e.ProductID
		if p, ok := products[e.ProductID]; ok {
			name = p.Name
		}
		qtyColor := colorGreen
		if e.Quantity < 0 {
			qtyColor = colorRed
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				e.CreatedAt.Format("02/01/2006 15:04"),
				props.Text{Size: 7.5, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(4).Add(text.New(
				name,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				e.StockKind,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				movementLabel(e.Movement),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				formatSigned(e.Quantity),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1, Color: qtyColor},
			)),
		))
	}
	return result
}

// summaryRow: totales de entradas, salidas y neto del periodo.
func summaryRow(entries []*entity.StockLogEntry) core.Row {
	var in, out int64
	for _, e := range entries {
		if e.Quantity >= 0 {
			in += e.Quantity
		} else {
			out += -e.Quantity
		}
	}
	net := in - out

	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string, c *props.Color) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Color: c})
	}

	return row.New(26).Add(
		col.New(3),
		col.New(3).Add(
			label("Total entradas:"),
			label("Total salidas:"),
			label("Movimiento neto:"),
		),
		col.New(3).Add(
			value(strconv.FormatInt(in, 10), colorGreen),
			value(strconv.FormatInt(out, 10), colorRed),
			value(formatSigned(net), colorPrimary),
		),
		col.New(3),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func movementLabel(movement string) string {
	if label, ok := movementLabels[movement]; ok {
		return label
	}
	return movement
}

// formatSigned imprime el signo explícito en positivos. Ej: 5 → "+5", -3 → "-3"
func formatSigned(n int64) string {
	if n > 0 {
		return "+" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
