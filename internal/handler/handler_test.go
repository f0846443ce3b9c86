package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bayup-finance/internal/auth"
	"bayup-finance/internal/config"
	"bayup-finance/internal/domain"
	"bayup-finance/internal/money"
	"bayup-finance/internal/pricing"
	"bayup-finance/internal/render"
	"bayup-finance/internal/report"
	"bayup-finance/internal/storage/memory"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	tokens *auth.TokenService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWith(t, nil)
}

func newTestServerWith(t *testing.T, override func(*Deps)) *testServer {
	t.Helper()
	tokens := auth.NewTokenService(config.Config{JWTSecret: "test", JWTExpiresIn: time.Hour})
	deps := Deps{
		Store:       memory.NewStorage(),
		Tokens:      tokens,
		Calculator:  pricing.NewCalculator(pricing.DefaultSchedule(), time.Minute),
		Formatter:   money.MustNew(money.Options{Locale: "es-CO", ThousandsSep: ".", DecimalSep: ","}),
		Renderer:    render.NewPDFRenderer("Bayup Test"),
		PageSize:    5,
		LoginSecret: "front-secret",
		Now:         func() time.Time { return time.Date(2025, 3, 20, 10, 0, 0, 0, time.UTC) },
	}
	if override != nil {
		override(&deps)
	}
	return &testServer{t: t, router: NewRouter(deps), tokens: tokens}
}

func (s *testServer) token(merchant int64) string {
	tok, err := s.tokens.GenerateToken(merchant)
	require.NoError(s.t, err)
	return tok
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthAndAuth(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/records", "", nil).Code)

	w := s.do(http.MethodPost, "/api/v1/login", "", map[string]any{"merchant_id": 3, "secret": "front-secret"})
	require.Equal(t, http.StatusOK, w.Code)
	tok := decode[map[string]string](t, w)["token"]
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/records", tok, nil).Code)

	tests := []struct {
		name string
		body map[string]any
		code int
	}{
		{"zero merchant", map[string]any{"merchant_id": 0, "secret": "front-secret"}, http.StatusBadRequest},
		{"missing secret", map[string]any{"merchant_id": 3}, http.StatusBadRequest},
		{"wrong secret", map[string]any{"merchant_id": 3, "secret": "guess"}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, s.do(http.MethodPost, "/api/v1/login", "", tt.body).Code)
		})
	}
}

func TestLoginDisabledWithoutSecret(t *testing.T) {
	tokens := auth.NewTokenService(config.Config{JWTSecret: "test", JWTExpiresIn: time.Hour})
	router := NewRouter(Deps{Store: memory.NewStorage(), Tokens: tokens})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewBufferString(`{"merchant_id":3,"secret":""}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMarginsEndpoint(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(1)

	w := s.do(http.MethodPost, "/api/v1/pricing/margins", tok, MarginsRequest{
		RetailPrice:       "200.000",
		WholesalePrice:    "150000",
		Cost:              "$ 100.000",
		GatewayFeeEnabled: true,
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[MarginsResponse](t, w)

	assert.Empty(t, resp.InvalidFields)
	assert.Equal(t, "150.000", resp.Inputs.WholesalePrice)
	assert.Equal(t, "$ 88.000", resp.Margins.Retail.Formatted.NetProfit)
	assert.Equal(t, "44,0%", resp.Margins.Retail.Formatted.MarginPercent)
	assert.Equal(t, "$ 41.000", resp.Margins.Wholesale.Formatted.NetProfit)
	assert.Equal(t, "27,3%", resp.Margins.Wholesale.Formatted.MarginPercent)
}

func TestMarginsReportsInvalidFields(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(1)

	w := s.do(http.MethodPost, "/api/v1/pricing/margins", tok, MarginsRequest{
		RetailPrice: "abc",
		Cost:        "50.000",
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[MarginsResponse](t, w)

	assert.Equal(t, []string{"retail_price"}, resp.InvalidFields)
	assert.True(t, resp.Margins.Retail.GrossPrice.IsZero())
	assert.Equal(t, "0,0%", resp.Margins.Retail.Formatted.MarginPercent)
	assert.Equal(t, "0,0%", resp.Margins.Wholesale.Formatted.MarginPercent)
}

func TestRecordsAndSummaryFlow(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(1)

	w := s.do(http.MethodPost, "/api/v1/records", tok, map[string]any{
		"kind": "expense", "description": "Domicilios", "amount": 45000,
		"category": "operativo_diario", "status": "pending", "date": "2025-03-15",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	pending := decode[domain.FinancialRecord](t, w)

	w = s.do(http.MethodPost, "/api/v1/records", tok, map[string]any{
		"kind": "purchase_order", "amount": 300000, "date": "2025-03-10", "related_party": "Textiles Andinos",
		"items":          []map[string]any{{"name": "Camisetas", "qty": 50}, {"name": "Gorras", "qty": 20}},
		"sending_method": "reminder", "scheduled_at": "2025-03-12T09:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	po := decode[domain.FinancialRecord](t, w)
	assert.Equal(t, domain.StatusScheduled, po.Status)
	assert.Equal(t, "Camisetas y 1 más...", po.Description)

	w = s.do(http.MethodPost, "/api/v1/records", tok, map[string]any{
		"kind": "expense", "description": "Arriendo", "amount": 100000,
		"category": "operativo_fijo", "date": "2025-03-01",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, domain.StatusPaid, decode[domain.FinancialRecord](t, w).Status)

	summary := func(query string) SummaryResponse {
		w := s.do(http.MethodGet, "/api/v1/reports/summary?"+query, tok, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		return decode[SummaryResponse](t, w)
	}

	got := summary("start=2025-03-01&end=2025-03-31")
	assert.Equal(t, int64(445000), got.Totals.Total)
	assert.Equal(t, int64(345000), got.Totals.PendingTotal)
	assert.Equal(t, 3, got.Totals.Count)
	assert.Equal(t, "$ 445.000", got.Formatted.Total)

	w = s.do(http.MethodPatch, "/api/v1/records/"+pending.ID+"/status", tok, map[string]any{"status": "paid"})
	require.Equal(t, http.StatusOK, w.Code)

	got = summary("month=2025-03")
	assert.Equal(t, int64(445000), got.Totals.Total)
	assert.Equal(t, int64(300000), got.Totals.PendingTotal)

	w = s.do(http.MethodPatch, "/api/v1/records/"+pending.ID+"/status", tok, map[string]any{"status": "pending"})
	assert.Equal(t, http.StatusConflict, w.Code)

	got = summary("kind=expense&sort=amount_desc&per_page=1")
	assert.Equal(t, int64(145000), got.Totals.Total)
	assert.Equal(t, 2, got.Page.TotalPages)
	require.Len(t, got.Page.Records, 1)
	assert.Equal(t, "Arriendo", got.Page.Records[0].Description)

	got = summary("q=andinos")
	require.Equal(t, 1, got.Totals.Count)
	assert.Equal(t, po.ID, got.Page.Records[0].ID)

	w = s.do(http.MethodGet, "/api/v1/records?category=operativo_fijo", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.FinancialRecord](t, w), 1)
}

func TestSummaryRejectsBadQuery(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(1)

	tests := []struct {
		name  string
		query string
	}{
		{"start after end", "start=2025-03-31&end=2025-03-01"},
		{"malformed start", "start=31/03/2025&end=2025-03-31"},
		{"one bound", "start=2025-03-01"},
		{"bad month", "month=2025-3"},
		{"unknown kind", "kind=invoice"},
		{"unknown sort", "sort=random"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodGet, "/api/v1/reports/summary?"+tt.query, tok, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	w := s.do(http.MethodGet, "/api/v1/records?month=2025-13", tok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Month must be in YYYY-MM format")

	w = s.do(http.MethodGet, "/api/v1/reports/summary?month=2025-03&kind=expense", tok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecordValidation(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(1)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing date", map[string]any{"kind": "expense", "description": "x", "amount": 1}},
		{"bad kind", map[string]any{"kind": "invoice", "description": "x", "date": "2025-01-01"}},
		{"negative amount", map[string]any{"kind": "expense", "description": "x", "amount": -1, "date": "2025-01-01"}},
		{"blank description", map[string]any{"kind": "expense", "description": "  ", "date": "2025-01-01"}},
		{"wrong expense category", map[string]any{"kind": "expense", "description": "x", "category": "compras", "date": "2025-01-01"}},
		{"order without items", map[string]any{"kind": "purchase_order", "description": "x", "date": "2025-01-01"}},
		{"reminder without schedule", map[string]any{"kind": "purchase_order", "date": "2025-01-01", "sending_method": "reminder", "items": []map[string]any{{"name": "a", "qty": 1}}}},
		{"commission without seller", map[string]any{"kind": "commission", "description": "x", "date": "2025-01-01"}},
		{"status of other kind", map[string]any{"kind": "expense", "description": "x", "status": "sent", "date": "2025-01-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/api/v1/records", tok, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestRecordCRUDAndTenantIsolation(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(1)
	other := s.token(2)

	w := s.do(http.MethodPost, "/api/v1/records", tok, map[string]any{
		"kind": "expense", "description": "Internet", "amount": 90000, "date": "2025-02-01",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	rec := decode[domain.FinancialRecord](t, w)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/v1/records/"+rec.ID, other, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/v1/records/nope", tok, nil).Code)

	w = s.do(http.MethodPut, "/api/v1/records/"+rec.ID, tok, map[string]any{
		"kind": "expense", "description": "Internet fibra", "amount": 95000, "date": "2025-02-02", "status": "pending",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[domain.FinancialRecord](t, w)
	assert.Equal(t, int64(95000), updated.Amount)
	assert.Equal(t, domain.StatusPaid, updated.Status)
	assert.Equal(t, rec.Category, updated.Category)

	w = s.do(http.MethodPut, "/api/v1/records/"+rec.ID, tok, map[string]any{
		"kind": "commission", "description": "x", "seller_id": "s1", "date": "2025-02-02",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/api/v1/records/"+rec.ID, tok, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/api/v1/records/"+rec.ID, tok, nil).Code)
}

type failingRenderer struct{}

func (failingRenderer) Render(io.Writer, report.Document) error { return errors.New("disk full") }

func (failingRenderer) PurchaseOrder(io.Writer, domain.FinancialRecord, *money.Formatter) error {
	return errors.New("disk full")
}

func (failingRenderer) ContentType() string { return "application/pdf" }

func TestPDFRenderFailure(t *testing.T) {
	s := newTestServerWith(t, func(d *Deps) { d.Renderer = failingRenderer{} })
	tok := s.token(1)

	w := s.do(http.MethodPost, "/api/v1/records", tok, map[string]any{
		"kind": "purchase_order", "amount": 1000, "date": "2025-03-10",
		"items": []map[string]any{{"name": "Jeans", "qty": 1}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	po := decode[domain.FinancialRecord](t, w)

	for _, path := range []string{"/api/v1/reports/pdf", "/api/v1/purchase-orders/" + po.ID + "/pdf"} {
		w = s.do(http.MethodGet, path, tok, nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code, path)
		assert.NotContains(t, w.Body.String(), "disk full", path)
	}
}

func TestPDFEndpoints(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(1)

	w := s.do(http.MethodPost, "/api/v1/records", tok, map[string]any{
		"kind": "purchase_order", "amount": 1200000, "date": "2025-03-10", "related_party": "Proveedor",
		"items": []map[string]any{{"name": "Jeans", "qty": 12}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	po := decode[domain.FinancialRecord](t, w)

	w = s.do(http.MethodPost, "/api/v1/records", tok, map[string]any{
		"kind": "expense", "description": "Luz", "amount": 80000, "date": "2025-03-05",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	expense := decode[domain.FinancialRecord](t, w)

	w = s.do(http.MethodGet, "/api/v1/reports/pdf?month=2025-03&title=Gastos", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	w = s.do(http.MethodGet, "/api/v1/purchase-orders/"+po.ID+"/pdf", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/purchase-orders/"+expense.ID+"/pdf", tok, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/reports/pdf?start=2025-04-01&end=2025-03-01", tok, nil).Code)
}

func TestProductsEndpoints(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(1)

	w := s.do(http.MethodPost, "/api/v1/products", tok, ProductRequest{
		Name: "Camisa <b>lino</b>", Cost: 100000, RetailPrice: 200000, WholesalePrice: 150000,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	p := decode[ProductView](t, w)
	assert.Equal(t, "Camisa lino", p.Name)
	assert.Equal(t, "$ 95.000", p.Margins.Retail.Formatted.NetProfit)

	w = s.do(http.MethodGet, "/api/v1/products/"+p.ID, tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "47,5%", decode[ProductView](t, w).Margins.Retail.Formatted.MarginPercent)

	w = s.do(http.MethodGet, "/api/v1/products", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]ProductView](t, w), 1)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/v1/products", tok, ProductRequest{Name: "x", Cost: -1}).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/api/v1/products/"+p.ID, tok, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/v1/products/"+p.ID, tok, nil).Code)
}

func TestCommissionsFlow(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(1)

	w := s.do(http.MethodPut, "/api/v1/sellers/s1", tok, SellerRequest{Name: "Lorena Gómez", SalesMonth: 50_000_000})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/v1/commission-rules", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	rules := decode[[]map[string]any](t, w)
	require.Len(t, rules, 1)
	assert.Equal(t, "2.5", rules[0]["rate_percent"])
	assert.Equal(t, float64(1_250_000), rules[0]["projected_earned"])
	assert.Equal(t, "500,0%", rules[0]["goal_progress"])

	w = s.do(http.MethodPost, "/api/v1/commissions/generate", tok, GenerateRequest{Date: "2025-03-31"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	gen := decode[GenerateResponse](t, w)
	require.Len(t, gen.Created, 1)
	assert.Equal(t, "c_s1_2025-03", gen.Created[0].ID)
	assert.Equal(t, int64(1_250_000), gen.Created[0].Amount)
	assert.Equal(t, domain.StatusPending, gen.Created[0].Status)

	w = s.do(http.MethodPost, "/api/v1/commissions/generate", tok, GenerateRequest{Date: "2025-03-15"})
	require.Equal(t, http.StatusOK, w.Code)
	gen = decode[GenerateResponse](t, w)
	assert.Empty(t, gen.Created)
	assert.Empty(t, gen.Updated)
	assert.Equal(t, []string{"c_s1_2025-03"}, gen.Skipped)

	// продажи выросли: ожидающая комиссия пересчитывается
	w = s.do(http.MethodPut, "/api/v1/sellers/s1", tok, SellerRequest{Name: "Lorena Gómez", SalesMonth: 60_000_000})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodPost, "/api/v1/commissions/generate", tok, GenerateRequest{Date: "2025-03-31"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	gen = decode[GenerateResponse](t, w)
	assert.Empty(t, gen.Created)
	assert.Empty(t, gen.Skipped)
	require.Len(t, gen.Updated, 1)
	assert.Equal(t, int64(1_500_000), gen.Updated[0].Amount)
	w = s.do(http.MethodGet, "/api/v1/records/c_s1_2025-03", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	rec := decode[domain.FinancialRecord](t, w)
	assert.Equal(t, int64(1_500_000), rec.Amount)
	assert.Equal(t, int64(60_000_000), rec.Commission.TotalSold)
	assert.Equal(t, domain.StatusPending, rec.Status)

	for _, date := range []string{"2025-02-28", "2025-04-01"} {
		w = s.do(http.MethodPost, "/api/v1/commissions/generate", tok, GenerateRequest{Date: date})
		assert.Equal(t, http.StatusBadRequest, w.Code, date)
		assert.Contains(t, w.Body.String(), "2025-03", date)
	}
	w = s.do(http.MethodGet, "/api/v1/records?kind=commission", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "c_s1_2025-02")

	w = s.do(http.MethodPut, "/api/v1/commission-rules/s1", tok, map[string]any{"seller_name": "Lorena Gómez", "rate_percent": "3", "active": false})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodPost, "/api/v1/commissions/generate", tok, GenerateRequest{Date: "2025-03-31"})
	require.Equal(t, http.StatusOK, w.Code)
	gen = decode[GenerateResponse](t, w)
	assert.Empty(t, gen.Created)
	assert.Empty(t, gen.Updated)

	w = s.do(http.MethodPost, "/api/v1/commissions/liquidate/c_s1_2025-03", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.StatusLiquidated, decode[domain.FinancialRecord](t, w).Status)

	w = s.do(http.MethodGet, "/api/v1/reports/summary?kind=commission", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), decode[SummaryResponse](t, w).Totals.PendingTotal)

	// выплаченная комиссия не пересчитывается
	w = s.do(http.MethodPut, "/api/v1/commission-rules/s1", tok, map[string]any{"seller_name": "Lorena Gómez", "rate_percent": "2.5", "active": true})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodPut, "/api/v1/sellers/s1", tok, SellerRequest{Name: "Lorena Gómez", SalesMonth: 80_000_000})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodPost, "/api/v1/commissions/generate", tok, GenerateRequest{Date: "2025-03-31"})
	require.Equal(t, http.StatusOK, w.Code)
	gen = decode[GenerateResponse](t, w)
	assert.Empty(t, gen.Updated)
	assert.Equal(t, []string{"c_s1_2025-03"}, gen.Skipped)
	w = s.do(http.MethodGet, "/api/v1/records/c_s1_2025-03", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1_500_000), decode[domain.FinancialRecord](t, w).Amount)

	w = s.do(http.MethodPost, "/api/v1/records", tok, map[string]any{
		"kind": "expense", "description": "Luz", "amount": 1, "date": "2025-03-05",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	expense := decode[domain.FinancialRecord](t, w)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/v1/commissions/liquidate/"+expense.ID, tok, nil).Code)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, "/api/v1/commission-rules/s1", tok, map[string]any{"seller_name": "L", "rate_percent": "150"}).Code)

	w = s.do(http.MethodPut, "/api/v1/commission-rules/s1", tok, map[string]any{"seller_name": "L", "rate_percent": "2.5555"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "3 decimal places")

	w = s.do(http.MethodPut, "/api/v1/commission-rules/s1", tok, map[string]any{"seller_name": "L", "rate_percent": "2.125"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2.125", decode[map[string]any](t, w)["rate_percent"])
}
