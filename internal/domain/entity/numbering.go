package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// DocumentSeries prefijo-año usado para buscar el último correlativo, p. ej. "BOL-2026-".
func DocumentSeries(prefix string, year int) string {
	return fmt.Sprintf("%s-%d-", prefix, year)
}

// NextDocumentNumber calcula el siguiente correlativo de la serie a partir del último emitido.
// last vacío (o de otra serie) inicia en 1. width es el ancho mínimo del correlativo.
func NextDocumentNumber(series, last string, width int) string {
	seq := 1
	if strings.HasPrefix(last, series) {
		if n, err := strconv.Atoi(strings.TrimPrefix(last, series)); err == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%0*d", series, width, seq)
}

// Anchos de correlativo por documento.
const (
	SaleNumberWidth     = 4
	PurchaseNumberWidth = 3
)
