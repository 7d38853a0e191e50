package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/jhoicas/comercializacion-api/internal/application/usecase"
	"github.com/jhoicas/comercializacion-api/internal/domain/repository"
	"github.com/jhoicas/comercializacion-api/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func latin1(t *testing.T, s string) []byte {
	t.Helper()
	out, err := charmap.ISO8859_1.NewEncoder().String(s)
	require.NoError(t, err)
	return []byte(out)
}

func TestParseCatalog_Latin1(t *testing.T) {
	csv := "codigo;nombre;categoria;precio_compra;precio_venta;stock;stock_minimo\n" +
		"ARZ-01;Arroz añejo 5kg;Abarrotes;18,50;22.90;40;10\n" +
		"\n" +
		"LCH-02;Leche evaporada;Lácteos;3.10;3.80;;\n"

	rows, err := parseCatalog(bytes.NewReader(latin1(t, csv)), true)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Arroz añejo 5kg", rows[0].Name)
	assert.True(t, decimal.RequireFromString("18.50").Equal(rows[0].PurchasePrice))
	assert.Equal(t, 40, rows[0].Stock)
	assert.Equal(t, 10, rows[0].MinStock)
	assert.Equal(t, "Lácteos", rows[1].Category)
	assert.Equal(t, 0, rows[1].Stock)
}

func TestParseCatalog_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		msg  string
	}{
		{"columnas", "A;B;C\n", "columnas"},
		{"precio", "A;Nombre;Cat;x;1;1;1\n", "precio_compra"},
		{"negativo", "A;Nombre;Cat;1;-1;1;1\n", "precio_venta"},
		{"stock", "A;Nombre;Cat;1;1;-3;1\n", "stock"},
		{"sin código", ";Nombre;Cat;1;1;1;1\n", "requeridos"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseCatalog(strings.NewReader(tt.csv), false)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestImportCatalog(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	categories := usecase.NewCategoryUseCase(store.Categories())
	products := usecase.NewProductUseCase(store.Products(), store.Categories())
	testutil.SeedCategory(t, store, "Abarrotes")

	rows, err := parseCatalog(strings.NewReader(
		"A1;Arroz;abarrotes;3;4;10;2\n"+
			"L1;Leche;Lácteos;2;3;5;1\n"+
			"L2;Yogurt;Lácteos;2;3;0;1\n"), false)
	require.NoError(t, err)

	res, err := importCatalog(ctx, categories, products, rows)
	require.NoError(t, err)
	assert.Equal(t, importResult{Categories: 1, Created: 3}, res)

	p, err := store.Products().GetByCode(ctx, "A1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 10, p.InitialStock)
	assert.Equal(t, 10, p.CurrentStock)
	sum, err := store.Movements().SumDelta(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, sum, "el stock inicial no genera movimientos")

	// Reimportar omite los códigos existentes.
	res, err = importCatalog(ctx, categories, products, rows)
	require.NoError(t, err)
	assert.Equal(t, importResult{Skipped: 3}, res)

	list, err := store.Categories().List(ctx, repository.PartyFilter{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
