package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/comercializacion-api/internal/application/auth"
	"github.com/jhoicas/comercializacion-api/internal/application/dto"
	"github.com/jhoicas/comercializacion-api/internal/application/inventory"
	"github.com/jhoicas/comercializacion-api/internal/application/purchasing"
	"github.com/jhoicas/comercializacion-api/internal/application/sales"
	"github.com/jhoicas/comercializacion-api/internal/application/usecase"
	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/jhoicas/comercializacion-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/comercializacion-api/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/comercializacion-api/internal/interfaces/http"
	"github.com/jhoicas/comercializacion-api/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakeVoucherPDF struct{}

func (fakeVoucherPDF) GenerateSaleVoucher(_ context.Context, data sales.VoucherData) ([]byte, error) {
	return []byte("%PDF-1.4 " + data.Sale.Number), nil
}

type server struct {
	app      *fiber.App
	store    *sqlite.Store
	category *entity.Category
	customer *entity.Customer
	supplier *entity.Supplier
}

func newServer(t *testing.T) *server {
	t.Helper()
	store := testutil.NewStore(t)
	tax := decimal.RequireFromString("0.18")
	ledger := inventory.NewStockLedger(store.TxRunner(), store.Products(), store.Movements())
	deps := apphttp.RouterDeps{
		AuthUC:     auth.NewAuthUseCase(store.Users(), testTokens(t)),
		UserUC:     usecase.NewUserUseCase(store.Users()),
		ProductUC:  usecase.NewProductUseCase(store.Products(), store.Categories()),
		CategoryUC: usecase.NewCategoryUseCase(store.Categories()),
		CustomerUC: usecase.NewCustomerUseCase(store.Customers()),
		SupplierUC: usecase.NewSupplierUseCase(store.Suppliers()),
		Ledger:     ledger,
		Adjustment: inventory.NewAdjustmentCoordinator(store.TxRunner(), ledger),
		Reports:    inventory.NewReportUseCase(store.Products(), store.Movements()),
		Exporter:   xlsx.NewInventoryExporter(),
		Sales:      sales.NewCoordinator(store.TxRunner(), ledger, store.Customers(), store.Sales(), tax),
		Voucher: sales.NewVoucherUseCase(store.Sales(), store.Customers(), store.Products(), fakeVoucherPDF{},
			sales.BusinessInfo{Name: "Bodega Test", RUC: "20000000001", CurrencySymbol: "S/"}),
		Purchases: purchasing.NewCoordinator(store.TxRunner(), ledger, store.Suppliers(), store.Purchases(), tax),
		Tokens:    testTokens(t),
	}
	for _, u := range []struct{ name, role string }{
		{"admin", entity.RoleAdmin}, {"vendedor", entity.RoleVendedor}, {"almacen", entity.RoleAlmacenero},
	} {
		testutil.SeedUser(t, store, u.name, u.role)
	}
	return &server{
		app:      apphttp.NewApp(apphttp.AppConfig{Name: "test", Ping: store.Ping}, deps),
		store:    store,
		category: testutil.SeedCategory(t, store, "Abarrotes"),
		customer: testutil.SeedCustomer(t, store, "12345678"),
		supplier: testutil.SeedSupplier(t, store, "20123456789"),
	}
}

func (s *server) do(t *testing.T, method, path, token string, body interface{}) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func (s *server) login(t *testing.T, username string) string {
	t.Helper()
	status, body := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: username, Password: testutil.DefaultPassword})
	require.Equal(t, http.StatusOK, status, string(body))
	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e), string(body))
	return e.Code
}

func TestLogin(t *testing.T) {
	s := newServer(t)

	status, body := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "admin", Password: "incorrecta"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, body))

	status, body = s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "nadie", Password: "incorrecta"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, body))

	status, body = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errorCode(t, body))

	token := s.login(t, "vendedor")
	status, body = s.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	var me dto.UserResponse
	require.NoError(t, json.Unmarshal(body, &me))
	assert.Equal(t, entity.RoleVendedor, me.Role)
}

func TestSaleFlow(t *testing.T) {
	s := newServer(t)
	seller := s.login(t, "vendedor")
	clerk := s.login(t, "almacen")
	p := testutil.SeedProduct(t, s.store, s.category.ID, "ARROZ", testutil.ProductOpts{Stock: 10, MinStock: 5, SalePrice: "4.50"})

	sale := dto.CreateSaleRequest{
		CustomerID:    s.customer.ID,
		VoucherType:   "boleta",
		PaymentMethod: "efectivo",
		Lines:         []dto.SaleLineRequest{{ProductID: p.ID, Quantity: 8}},
	}
	status, body := s.do(t, http.MethodPost, "/api/sales", seller, sale)
	require.Equal(t, http.StatusCreated, status, string(body))
	var created dto.SaleResponse
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "completada", created.State)
	assert.Equal(t, 2, testutil.Stock(t, s.store, p.ID))

	// Sobreventa: 409 y stock intacto.
	status, body = s.do(t, http.MethodPost, "/api/sales", seller, sale)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, body))
	assert.Equal(t, 2, testutil.Stock(t, s.store, p.ID))

	// El vendedor no ajusta stock.
	adjust := dto.AdjustStockRequest{ProductID: p.ID, Delta: -5, Reason: "merma"}
	status, _ = s.do(t, http.MethodPost, "/api/inventory/adjustments", seller, adjust)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = s.do(t, http.MethodPost, "/api/inventory/adjustments", clerk, adjust)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, body))

	adjust.Delta = 3
	status, body = s.do(t, http.MethodPost, "/api/inventory/adjustments", clerk, adjust)
	require.Equal(t, http.StatusCreated, status, string(body))
	var mov dto.MovementResponse
	require.NoError(t, json.Unmarshal(body, &mov))
	assert.Equal(t, 2, mov.StockBefore)
	assert.Equal(t, 5, mov.StockAfter)

	status, body = s.do(t, http.MethodGet, "/api/products/"+p.ID+"/movements", seller, nil)
	require.Equal(t, http.StatusOK, status)
	var history dto.MovementListResponse
	require.NoError(t, json.Unmarshal(body, &history))
	require.Len(t, history.Items, 2)
	assert.Equal(t, entity.MovementTypeADJUSTMENT, history.Items[0].Type)
	assert.Equal(t, entity.MovementTypeOUT, history.Items[1].Type)

	status, body = s.do(t, http.MethodGet, "/api/products/"+p.ID+"/movements?desde=2024-13-01", seller, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errorCode(t, body))

	// Anular devuelve el stock; la segunda anulación es 409.
	status, body = s.do(t, http.MethodPost, "/api/sales/"+created.ID+"/void", seller, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Equal(t, 13, testutil.Stock(t, s.store, p.ID))
	status, body = s.do(t, http.MethodPost, "/api/sales/"+created.ID+"/void", seller, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVALID_STATE", errorCode(t, body))

	status, body = s.do(t, http.MethodGet, "/api/sales?estado=anulada", clerk, nil)
	require.Equal(t, http.StatusOK, status)
	var list dto.SaleListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, created.ID, list.Items[0].ID)

	status, body = s.do(t, http.MethodGet, "/api/products/"+p.ID+"/reconcile", clerk, nil)
	require.Equal(t, http.StatusOK, status)
	var rec dto.ReconciliationResponse
	require.NoError(t, json.Unmarshal(body, &rec))
	assert.True(t, rec.Consistent)
	assert.Equal(t, 13, rec.Actual)
}

func TestSaleVoucherPDF(t *testing.T) {
	s := newServer(t)
	seller := s.login(t, "vendedor")
	p := testutil.SeedProduct(t, s.store, s.category.ID, "LECHE", testutil.ProductOpts{Stock: 3})

	status, body := s.do(t, http.MethodPost, "/api/sales", seller, dto.CreateSaleRequest{
		CustomerID: s.customer.ID, VoucherType: "factura", PaymentMethod: "tarjeta",
		Lines: []dto.SaleLineRequest{{ProductID: p.ID, Quantity: 1}},
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	var created dto.SaleResponse
	require.NoError(t, json.Unmarshal(body, &created))

	req := httptest.NewRequest(http.MethodGet, "/api/sales/"+created.ID+"/voucher.pdf", nil)
	req.Header.Set("Authorization", "Bearer "+seller)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), created.Number)
}

func TestInventoryReportExport(t *testing.T) {
	s := newServer(t)
	testutil.SeedProduct(t, s.store, s.category.ID, "ARROZ", testutil.ProductOpts{Stock: 1, MinStock: 4})
	testutil.SeedProduct(t, s.store, s.category.ID, "AZUCAR", testutil.ProductOpts{Stock: 20, MinStock: 4})

	status, _ := s.do(t, http.MethodGet, "/api/inventory/report.xlsx", s.login(t, "vendedor"), nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body := s.do(t, http.MethodGet, "/api/inventory/report.xlsx", s.login(t, "almacen"), nil)
	require.Equal(t, http.StatusOK, status, string(body))

	f, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(xlsx.SheetStock)
	require.NoError(t, err)
	assert.Len(t, rows, 3, "cabecera + 2 productos")
	low, err := f.GetRows(xlsx.SheetLowStock)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "ARROZ", low[1][0])
	assert.Equal(t, "3", low[1][4])
}

func TestPurchaseFlow(t *testing.T) {
	s := newServer(t)
	clerk := s.login(t, "almacen")
	seller := s.login(t, "vendedor")
	a := testutil.SeedProduct(t, s.store, s.category.ID, "A", testutil.ProductOpts{})
	b := testutil.SeedProduct(t, s.store, s.category.ID, "B", testutil.ProductOpts{})

	req := dto.CreatePurchaseRequest{
		SupplierID: s.supplier.ID,
		Lines: []dto.PurchaseLineRequest{
			{ProductID: a.ID, Quantity: 20, UnitPrice: decimal.RequireFromString("3.00")},
			{ProductID: b.ID, Quantity: 5, UnitPrice: decimal.RequireFromString("7.00")},
		},
	}
	status, _ := s.do(t, http.MethodPost, "/api/purchases", seller, req)
	assert.Equal(t, http.StatusForbidden, status)

	status, body := s.do(t, http.MethodPost, "/api/purchases", clerk, req)
	require.Equal(t, http.StatusCreated, status, string(body))
	var created dto.PurchaseResponse
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "pendiente", created.State)
	assert.False(t, created.Closed)
	assert.Equal(t, 0, testutil.Stock(t, s.store, a.ID))

	status, body = s.do(t, http.MethodPost, "/api/purchases/"+created.ID+"/receive", clerk, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var received dto.PurchaseResponse
	require.NoError(t, json.Unmarshal(body, &received))
	assert.Equal(t, "recibida", received.State)
	assert.True(t, received.Closed)
	assert.Equal(t, 20, testutil.Stock(t, s.store, a.ID))
	assert.Equal(t, 5, testutil.Stock(t, s.store, b.ID))

	status, body = s.do(t, http.MethodPost, "/api/purchases/"+created.ID+"/receive", clerk, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVALID_STATE", errorCode(t, body))
	assert.Equal(t, 20, testutil.Stock(t, s.store, a.ID))

	status, body = s.do(t, http.MethodPost, "/api/purchases/"+created.ID+"/cancel", clerk, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVALID_STATE", errorCode(t, body))
}

func TestRequestValidation(t *testing.T) {
	s := newServer(t)
	admin := s.login(t, "admin")

	status, body := s.do(t, http.MethodPost, "/api/sales", admin, dto.CreateSaleRequest{
		CustomerID: s.customer.ID, VoucherType: "recibo", PaymentMethod: "efectivo",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Contains(t, e.Fields, "voucher_type")
	assert.Contains(t, e.Fields, "lines")

	status, body = s.do(t, http.MethodGet, "/api/products/no-existe", admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(t, body))

	status, body = s.do(t, http.MethodPost, "/api/products", admin, dto.CreateProductRequest{
		Code: "X1", Name: "Producto X", CategoryID: s.category.ID,
		SalePrice: decimal.RequireFromString("2"), InitialStock: 4,
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	status, body = s.do(t, http.MethodPost, "/api/products", admin, dto.CreateProductRequest{
		Code: "X1", Name: "Otro", CategoryID: s.category.ID,
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE", errorCode(t, body))
	status, body = s.do(t, http.MethodPost, "/api/inventory/adjustments", admin,
		map[string]interface{}{"product_id": "x", "delta": int64(1) << 40, "reason": "carga"})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Contains(t, e.Fields, "delta")
}

func TestHealthAndMetrics(t *testing.T) {
	s := newServer(t)

	status, body := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"ok"`)

	status, _ = s.do(t, http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "http_requests_total")
}

func TestMetricsAfterTraffic(t *testing.T) {
	s := newServer(t)
	seller := s.login(t, "vendedor")
	p := testutil.SeedProduct(t, s.store, s.category.ID, "AZUCAR", testutil.ProductOpts{Stock: 20, SalePrice: "3.20"})

	sale := dto.CreateSaleRequest{
		CustomerID:    s.customer.ID,
		VoucherType:   "boleta",
		PaymentMethod: "efectivo",
		Lines:         []dto.SaleLineRequest{{ProductID: p.ID, Quantity: 2}},
	}
	for i := 0; i < 4; i++ {
		status, body := s.do(t, http.MethodPost, "/api/sales", seller, sale)
		require.Equal(t, http.StatusCreated, status, string(body))
		status, _ = s.do(t, http.MethodGet, "/api/sales", seller, nil)
		require.Equal(t, http.StatusOK, status)
		status, _ = s.do(t, http.MethodGet, "/api/products/"+p.ID, seller, nil)
		require.Equal(t, http.StatusOK, status)
		status, _ = s.do(t, http.MethodGet, "/api/no-existe", seller, nil)
		require.Equal(t, http.StatusNotFound, status)
	}

	status, body := s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Contains(t, string(body), `method="POST",path="/api/sales`)
	assert.Contains(t, string(body), `method="GET",path="/api/products/:id"`)
}

func TestReportEndpoints(t *testing.T) {
	s := newServer(t)
	seller := s.login(t, "vendedor")
	warehouse := s.login(t, "almacen")
	sugar := testutil.SeedProduct(t, s.store, s.category.ID, "AZUCAR", testutil.ProductOpts{Stock: 20, SalePrice: "3.20"})
	rice := testutil.SeedProduct(t, s.store, s.category.ID, "ARROZ", testutil.ProductOpts{Stock: 5})

	status, body := s.do(t, http.MethodPost, "/api/sales", seller, dto.CreateSaleRequest{
		CustomerID:    s.customer.ID,
		VoucherType:   "boleta",
		PaymentMethod: "efectivo",
		Lines:         []dto.SaleLineRequest{{ProductID: sugar.ID, Quantity: 2}},
	})
	require.Equal(t, http.StatusCreated, status, string(body))

	status, body = s.do(t, http.MethodGet, "/api/inventory/rotation?dias=30", warehouse, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var rotation dto.RotationResponse
	require.NoError(t, json.Unmarshal(body, &rotation))
	assert.Equal(t, 30, rotation.Days)
	require.Len(t, rotation.Items, 1)
	assert.Equal(t, sugar.ID, rotation.Items[0].ProductID)
	assert.Equal(t, 2, rotation.Items[0].SoldQuantity)
	assert.Equal(t, 18, rotation.Items[0].CurrentStock)

	status, body = s.do(t, http.MethodGet, "/api/inventory/idle?dias=60", seller, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var idle dto.IdleProductsResponse
	require.NoError(t, json.Unmarshal(body, &idle))
	require.Len(t, idle.Items, 1)
	assert.Equal(t, rice.ID, idle.Items[0].ProductID)
	assert.Nil(t, idle.Items[0].LastMovement)

	status, body = s.do(t, http.MethodGet, "/api/inventory/rotation?dias=0", seller, nil)
	assert.Equal(t, http.StatusBadRequest, status, string(body))

	today := time.Now().UTC().Format("2006-01-02")
	status, body = s.do(t, http.MethodGet, "/api/sales/summary?desde="+today+"&hasta="+today, seller, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var summary dto.SalesSummaryResponse
	require.NoError(t, json.Unmarshal(body, &summary))
	assert.Equal(t, 1, summary.Count)
	assert.Equal(t, "7.55", summary.Total.StringFixed(2))
	assert.Equal(t, 1, summary.ByPaymentMethod["efectivo"].Count)

	status, body = s.do(t, http.MethodGet, "/api/sales/summary?hasta="+today, seller, nil)
	assert.Equal(t, http.StatusBadRequest, status, string(body))
	status, _ = s.do(t, http.MethodGet, "/api/sales/summary?desde="+today+"&hasta="+today, warehouse, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = s.do(t, http.MethodGet, "/api/sales/daily", warehouse, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var daily dto.SaleListResponse
	require.NoError(t, json.Unmarshal(body, &daily))
	assert.Len(t, daily.Items, 1)

	status, body = s.do(t, http.MethodGet, "/api/purchases/summary?desde="+today+"&hasta="+today, warehouse, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var purchases dto.PurchasesSummaryResponse
	require.NoError(t, json.Unmarshal(body, &purchases))
	assert.Zero(t, purchases.Count)
}
