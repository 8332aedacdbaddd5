// Package pdf implementa la representación gráfica del recibo de pago de una
// suscripción anual, con el desglose del paquete a precios congelados.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Recibo de Suscripción │ N° Suscripción + Fecha     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SUSCRIPCIÓN: estado / ciclo / próxima renovación           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Concepto | Detalle | Precio anual                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL ANUAL                                                │
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

	"github.com/gajjarumesh/erp-beta-sub001/internal/application/billing"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// Asegura que MarotoReceiptGenerator implementa billing.ReceiptPDFGenerator.
var _ billing.ReceiptPDFGenerator = (*MarotoReceiptGenerator)(nil)

// MarotoReceiptGenerator implementa billing.ReceiptPDFGenerator usando Maroto v2.
type MarotoReceiptGenerator struct{}

// NewMarotoReceiptGenerator construye el generador.
func NewMarotoReceiptGenerator() *MarotoReceiptGenerator { return &MarotoReceiptGenerator{} }

// GenerateReceiptPDF genera el PDF del recibo y devuelve sus bytes.
func (g *MarotoReceiptGenerator) GenerateReceiptPDF(_ context.Context, data *billing.ReceiptData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Recibo de Suscripción", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(subscriptionRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range breakdownRows(data) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(data))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título del recibo (izq) y N° de suscripción + fecha (der).
func headerRow(data *billing.ReceiptData) core.Row {
	fecha := data.Subscription.StartDate.Format("02/01/2006")
	return row.New(18).Add(
		col.New(7).Add(
			text.New("RECIBO DE SUSCRIPCIÓN", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Paquete: "+data.Package.Name, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("SUSCRIPCIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(data.Subscription.ID, props.Text{
				Size: 7, Align: align.Right, Top: 7,
			}),
			text.New("Inicio: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

// subscriptionRow: estado, ciclo de facturación y próxima renovación.
func subscriptionRow(data *billing.ReceiptData) core.Row {
	sub := data.Subscription
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DE LA SUSCRIPCIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Estado: %s   |   Ciclo: %s   |   Próxima renovación: %s",
				sub.Status, sub.BillingCycle, sub.RenewalDate.Format("02/01/2006"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de desglose.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Concepto", 3, align.Left),
		h("Detalle", 6, align.Left),
		h("Precio anual", 3, align.Right),
	)
}

// breakdownRows: una fila por módulo, sub-módulo y límite, a precios
// congelados al momento de la compra.
func breakdownRows(data *billing.ReceiptData) []core.Row {
	detail := func(concepto, detalle, precio string) core.Row {
		return row.New(7).Add(
			col.New(3).Add(text.New(concepto, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(6).Add(text.New(detalle, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(precio, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		)
	}
	nameOrID := func(names map[string]string, id string) string {
		if n, ok := names[id]; ok {
			return n
		}
		return id
	}

	rows := make([]core.Row, 0, len(data.Modules)+len(data.SubModules)+len(data.Limits))
	for _, m := range data.Modules {
		rows = append(rows, detail("Módulo",
			nameOrID(data.ModuleNames, m.ModuleID),
			"$"+m.PriceAtPurchase.StringFixed(2)))
	}
	for _, sm := range data.SubModules {
		rows = append(rows, detail("Sub-módulo",
			nameOrID(data.SubModuleNames, sm.SubModuleID),
			"$"+sm.PriceAtPurchase.StringFixed(2)))
	}
	for _, l := range data.Limits {
		rows = append(rows, detail("Límite",
			fmt.Sprintf("%s (%d)", nameOrID(data.LimitTypeNames, l.LimitTypeID), l.LimitValue),
			"$"+l.PriceAtPurchase.StringFixed(2)))
	}
	return rows
}

// totalRow: monto anual de la suscripción alineado a la derecha.
func totalRow(data *billing.ReceiptData) core.Row {
	return row.New(12).Add(
		col.New(6),
		col.New(3).Add(
			text.New("TOTAL ANUAL:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Right: 2, Top: 2,
			}),
		),
		col.New(3).Add(
			text.New("$"+data.Subscription.YearlyAmount.StringFixed(2), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Right: 1, Top: 2,
			}),
		),
	)
}
