// Package xlsx exporta reportes de inventario a hojas de cálculo con excelize.
package xlsx

import (
	"context"
	"fmt"

	"github.com/jhoicas/comercializacion-api/internal/application/inventory"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Nombres de las hojas del libro.
const (
	SheetStock     = "Existencias"
	SheetLowStock  = "Stock bajo"
	SheetValuation = "Valorizacion"
)

// InventoryExporter implementa inventory.ReportExporter.
type InventoryExporter struct{}

// NewInventoryExporter construye el exportador.
func NewInventoryExporter() *InventoryExporter { return &InventoryExporter{} }

// ExportInventory arma un libro con tres hojas: existencias, stock bajo y valorización.
func (e *InventoryExporter) ExportInventory(_ context.Context, r *inventory.InventoryReport) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("xlsx: reporte vacío")
	}
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	w := &sheetWriter{f: f, header: header}

	if err := f.SetSheetName("Sheet1", SheetStock); err != nil {
		return nil, fmt.Errorf("xlsx: hoja: %w", err)
	}
	w.headers(SheetStock, "Código", "Producto", "Stock", "Stock mínimo", "P. compra", "P. venta", "Valor compra", "Valor venta", "Bajo mínimo")
	for i, row := range r.Stock {
		low := ""
		if row.Low {
			low = "SI"
		}
		w.row(SheetStock, i+2, row.Code, row.Name, row.CurrentStock, row.MinStock,
			num(row.PurchasePrice), num(row.SalePrice), num(row.PurchaseValue), num(row.SaleValue), low)
	}
	w.table(SheetStock, "I", len(r.Stock))

	if _, err := f.NewSheet(SheetLowStock); err != nil {
		return nil, fmt.Errorf("xlsx: hoja: %w", err)
	}
	w.headers(SheetLowStock, "Código", "Producto", "Stock", "Stock mínimo", "Cantidad requerida", "P. compra", "Costo estimado")
	for i, it := range r.LowStock {
		w.row(SheetLowStock, i+2, it.Code, it.Name, it.CurrentStock, it.MinStock, it.RequiredQuantity,
			num(it.PurchasePrice), num(it.EstimatedCost))
	}
	w.table(SheetLowStock, "G", len(r.LowStock))

	if _, err := f.NewSheet(SheetValuation); err != nil {
		return nil, fmt.Errorf("xlsx: hoja: %w", err)
	}
	v := r.Valuation
	w.headers(SheetValuation, "Concepto", "Valor")
	for i, kv := range []struct {
		label string
		value interface{}
	}{
		{"Generado (UTC)", r.GeneratedAt.Format("2006-01-02 15:04")},
		{"Productos", v.Products},
		{"Unidades", v.Units},
		{"Valor a precio de compra", num(v.PurchaseValue)},
		{"Valor a precio de venta", num(v.SaleValue)},
		{"Utilidad potencial", num(v.PotentialProfit)},
		{"Margen %", num(v.MarginPercentage)},
	} {
		w.row(SheetValuation, i+2, kv.label, kv.value)
	}
	_ = f.SetColWidth(SheetValuation, "A", "A", 28)

	if w.err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", w.err)
	}
	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: serializar: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetWriter guarda el primer error de escritura.
type sheetWriter struct {
	f      *excelize.File
	header int
	err    error
}

func (w *sheetWriter) headers(sheet string, names ...string) {
	for i, h := range names {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		w.set(sheet, cell, h)
		if w.err == nil {
			w.err = w.f.SetCellStyle(sheet, cell, cell, w.header)
		}
	}
}

func (w *sheetWriter) row(sheet string, n int, values ...interface{}) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, n)
		w.set(sheet, cell, v)
	}
}

func (w *sheetWriter) set(sheet, cell string, v interface{}) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetCellValue(sheet, cell, v)
}

// table congela la cabecera, ajusta anchos y agrega autofiltro si hay filas.
func (w *sheetWriter) table(sheet, lastCol string, rows int) {
	if w.err != nil {
		return
	}
	_ = w.f.SetColWidth(sheet, "B", "B", 36)
	w.err = w.f.SetPanes(sheet, &excelize.Panes{Freeze: true, Split: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	if w.err == nil && rows > 0 {
		w.err = w.f.AutoFilter(sheet, fmt.Sprintf("A1:%s%d", lastCol, rows+1), []excelize.AutoFilterOptions{})
	}
}

// num convierte montos a float64 para que la hoja los trate como números.
func num(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
