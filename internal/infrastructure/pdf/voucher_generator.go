// Package pdf genera el comprobante de venta (boleta, factura o ticket) en A4.
//
// Layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Negocio + RUC        │  Tipo + N° comprobante + Fecha│
//	│  CLIENTE: Nombre + documento + dirección                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Código | Descripción | P.Unit | Dscto | Subtot │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Descuento / Impuesto / TOTAL            │
//	│  QR con número y total + método de pago                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jhoicas/comercializacion-api/internal/application/sales"
	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 180, Green: 20, Blue: 20}
)

// VoucherGenerator implementa sales.VoucherPDFGenerator usando Maroto v2.
type VoucherGenerator struct{}

// NewVoucherGenerator construye el generador.
func NewVoucherGenerator() *VoucherGenerator { return &VoucherGenerator{} }

var _ sales.VoucherPDFGenerator = (*VoucherGenerator)(nil)

// GenerateSaleVoucher genera el PDF y devuelve sus bytes.
func (g *VoucherGenerator) GenerateSaleVoucher(_ context.Context, data sales.VoucherData) ([]byte, error) {
	if data.Sale == nil {
		return nil, fmt.Errorf("pdf: venta requerida")
	}
	currency := nonEmpty(data.Business.CurrencySymbol, "S/")

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(voucherTitle(data.Sale.VoucherType)+" "+data.Sale.Number, true).
		WithAuthor(nonEmpty(data.Business.Name, "Comercialización"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data))
	if data.Sale.State == entity.SaleVoided {
		m.AddRows(voidedRow(data.Sale))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(data.Customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(data.Lines, currency) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(data.Sale, currency))
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(data, currency))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func voucherTitle(voucherType string) string {
	switch voucherType {
	case entity.VoucherFactura:
		return "FACTURA DE VENTA"
	case entity.VoucherTicket:
		return "TICKET DE VENTA"
	default:
		return "BOLETA DE VENTA"
	}
}

func headerRow(data sales.VoucherData) core.Row {
	return row.New(20).Add(
		col.New(7).Add(
			text.New(nonEmpty(data.Business.Name, "Comercialización"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("RUC: "+nonEmpty(data.Business.RUC, "-"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(voucherTitle(data.Sale.VoucherType), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(data.Sale.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+data.Sale.Date.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func voidedRow(sale *entity.Sale) core.Row {
	msg := "COMPROBANTE ANULADO"
	if sale.VoidedAt != nil {
		msg += " el " + sale.VoidedAt.Format("02/01/2006 15:04")
	}
	return row.New(8).Add(col.New(12).Add(
		text.New(msg, props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Center, Color: colorRed, Top: 1}),
	))
}

func customerRow(customer *entity.Customer) core.Row {
	name, doc, address := "Cliente varios", "-", "-"
	if customer != nil {
		name = strings.TrimSpace(customer.FirstName + " " + customer.LastName)
		if customer.DocumentNumber != "" {
			doc = customer.DocumentType + " " + customer.DocumentNumber
		}
		address = nonEmpty(customer.Address, "-")
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("Documento: %s   |   Dirección: %s", doc, address), props.Text{
				Size: 8, Top: 12, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Código", 2, align.Left),
		h("Descripción", 4, align.Left),
		h("P. Unit.", 2, align.Right),
		h("Dscto.", 1, align.Right),
		h("Subtotal", 2, align.Right),
	)
}

func tableDetailRows(lines []sales.VoucherLine, currency string) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprintf("%d", l.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(l.ProductCode, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(l.ProductName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(money(currency, l.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(l.Discount.StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(money(currency, l.Subtotal), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func totalsRow(sale *entity.Sale, currency string) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(26).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:", 0),
			label("Descuento:", 5),
			label("Impuesto:", 10),
			text.New("TOTAL:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 16}),
		),
		col.New(3).Add(
			value(money(currency, sale.Subtotal), 0),
			value("-"+money(currency, sale.Discount), 5),
			value(money(currency, sale.Tax), 10),
			text.New(money(currency, sale.Total), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 16}),
		),
	)
}

func footerRow(data sales.VoucherData, currency string) core.Row {
	qr := strings.Join([]string{
		data.Business.RUC,
		data.Sale.Number,
		data.Sale.Total.StringFixed(2),
		data.Sale.Date.Format("2006-01-02"),
	}, "|")
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(qr, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Método de pago: "+data.Sale.PaymentMethod, props.Text{Size: 8, Top: 4, Left: 3, Color: colorGray}),
			text.New("Total pagado: "+money(currency, data.Sale.Total), props.Text{Style: fontstyle.Bold, Size: 9, Top: 10, Left: 3}),
			text.New(nonEmpty(data.Sale.Notes, "Gracias por su compra."), props.Text{Size: 8, Top: 18, Left: 3, Color: colorGray}),
		),
	)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// money formatea con símbolo, dos decimales y separador de miles: "S/ 1,250.50".
func money(currency string, d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + currency + " " + string(buf) + "." + frac
}
