package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveHTTP(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/api/sales", "201"))
	ObserveHTTP("POST", "/api/sales", 201, 15*time.Millisecond)
	ObserveHTTP("POST", "/api/sales", 201, 20*time.Millisecond)
	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/api/sales", "201"))
	assert.Equal(t, 2.0, after-before)
}

func TestStockMovements(t *testing.T) {
	c := StockMovementsTotal.WithLabelValues("salida")
	before := testutil.ToFloat64(c)
	StockMovements("salida", 3)
	StockMovements("salida", 0)
	assert.Equal(t, 3.0, testutil.ToFloat64(c)-before)
}

func TestBusinessCounters(t *testing.T) {
	before := testutil.ToFloat64(SalesVoidedTotal)
	SalesVoidedTotal.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(SalesVoidedTotal)-before)
}
