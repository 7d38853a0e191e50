package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// catalogRow una línea del CSV: codigo;nombre;categoria;precio_compra;precio_venta;stock;stock_minimo
type catalogRow struct {
	Line          int
	Code          string
	Name          string
	Category      string
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	Stock         int
	MinStock      int
}

const catalogColumns = 7

// parseCatalog lee el CSV separado por ';'. Los exports de Excel en español llegan en
// ISO-8859-1, por eso latin1 es el default del comando. Omite la cabecera si existe.
func parseCatalog(r io.Reader, latin1 bool) ([]catalogRow, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows []catalogRow
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("leer csv: %w", err)
		}
		line++
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "codigo") {
			continue
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		row, err := parseRow(line, rec)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(line int, rec []string) (catalogRow, error) {
	if len(rec) < catalogColumns {
		return catalogRow{}, fmt.Errorf("línea %d: se esperaban %d columnas, hay %d", line, catalogColumns, len(rec))
	}
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}
	row := catalogRow{Line: line, Code: rec[0], Name: rec[1], Category: rec[2]}
	if row.Code == "" || row.Name == "" || row.Category == "" {
		return catalogRow{}, fmt.Errorf("línea %d: código, nombre y categoría son requeridos", line)
	}
	var err error
	if row.PurchasePrice, err = parseMoney(rec[3]); err != nil {
		return catalogRow{}, fmt.Errorf("línea %d: precio_compra: %w", line, err)
	}
	if row.SalePrice, err = parseMoney(rec[4]); err != nil {
		return catalogRow{}, fmt.Errorf("línea %d: precio_venta: %w", line, err)
	}
	if row.Stock, err = parseCount(rec[5]); err != nil {
		return catalogRow{}, fmt.Errorf("línea %d: stock: %w", line, err)
	}
	if row.MinStock, err = parseCount(rec[6]); err != nil {
		return catalogRow{}, fmt.Errorf("línea %d: stock_minimo: %w", line, err)
	}
	return row, nil
}

// parseMoney acepta "12.50" y "12,50".
func parseMoney(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("monto inválido %q", s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("monto negativo %q", s)
	}
	return d, nil
}

func parseCount(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("cantidad inválida %q", s)
	}
	return n, nil
}
