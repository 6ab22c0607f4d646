package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ia-papeleria/internal/ai"
	"ia-papeleria/internal/chatbot"
	"ia-papeleria/internal/config"
	"ia-papeleria/internal/model"
	"ia-papeleria/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct{ text string }

func (stubProvider) Name() string { return "openai" }

func (s stubProvider) Complete(context.Context, ai.Request) ai.Result {
	return ai.Result{Text: s.text}
}

type harness struct {
	t     *testing.T
	app   *App
	token string
}

func newHarness(t *testing.T) *harness {
	cfg := &config.Config{
		Server:     config.ServerConfig{Port: "0", AppName: "PapelBot test"},
		AI:         config.AIConfig{Provider: "openai", Timeout: time.Second},
		Transcript: config.TranscriptConfig{Size: 20},
		JWTSecret:  "test-secret",
		Timezone:   "UTC",
	}
	a, err := New(cfg, testutil.NewDB(t), WithProviders(stubProvider{text: "Con gusto te ayudo."}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	token, err := a.Tokens.GenerateToken("caja-1", model.DefaultPrivileges, time.Hour)
	require.NoError(t, err)
	return &harness{t: t, app: a, token: token}
}

func (h *harness) do(method, path string, body interface{}, auth bool) (int, []byte) {
	h.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.app.Fiber.Test(req, -1)
	require.NoError(h.t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)
	return resp.StatusCode, out
}

func (h *harness) createProduct(name string, stock int) model.Product {
	h.t.Helper()
	status, body := h.do("POST", "/api/v1/products", map[string]interface{}{
		"name":      name,
		"price":     2500,
		"stock":     stock,
		"min_stock": 5,
		"category":  "cuadernos",
	}, true)
	require.Equal(h.t, http.StatusCreated, status, string(body))

	var created struct {
		Data model.Product `json:"data"`
	}
	require.NoError(h.t, json.Unmarshal(body, &created))
	return created.Data
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	status, body := h.do("GET", "/health", nil, false)
	assert.Equal(t, http.StatusOK, status)

	got := decode[map[string]interface{}](t, body)
	assert.Equal(t, "ok", got["status"])
	assert.Equal(t, true, got["ai_configured"])
}

func TestWebhookReplies(t *testing.T) {
	h := newHarness(t)

	status, body := h.do("POST", "/whatsapp/webhook", map[string]string{"message": "hola", "sender": "573001112233"}, false)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, decode[map[string]string](t, body)["response"], "PapelBot")

	status, _ = h.do("POST", "/whatsapp/webhook", map[string]string{"sender": "573001112233"}, false)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestChatSaleFlow(t *testing.T) {
	h := newHarness(t)
	p := h.createProduct("Cuaderno", 10)

	status, body := h.do("POST", "/api/v1/chat/message", map[string]string{"message": "Vendí 3 cuadernos", "sender": "caja"}, false)
	require.Equal(t, http.StatusOK, status)
	out := decode[chatbot.Outcome](t, body)
	assert.Equal(t, chatbot.IntentRecordSale, out.Intent)
	assert.Contains(t, out.Reply, "Stock restante: 7")

	status, body = h.do("GET", "/api/v1/products/"+p.ID.String(), nil, false)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 7, decode[model.Product](t, body).Stock)

	status, body = h.do("GET", "/api/v1/sales", nil, true)
	require.Equal(t, http.StatusOK, status)
	sales := decode[[]model.Sale](t, body)
	require.Len(t, sales, 1)
	assert.Equal(t, 3, sales[0].Quantity)
	assert.True(t, decimal.NewFromInt(7500).Equal(sales[0].TotalPrice), sales[0].TotalPrice.String())

	status, body = h.do("GET", "/api/v1/chat/caja/history", nil, false)
	require.Equal(t, http.StatusOK, status)
	history := decode[struct {
		Data []map[string]interface{} `json:"data"`
	}](t, body)
	assert.Len(t, history.Data, 2)
}

func TestChatFallbackUsesProvider(t *testing.T) {
	h := newHarness(t)
	status, body := h.do("POST", "/api/v1/chat/message", map[string]string{"message": "que me recomiendas para la universidad"}, false)
	require.Equal(t, http.StatusOK, status)

	out := decode[chatbot.Outcome](t, body)
	assert.Equal(t, chatbot.IntentFallbackAI, out.Intent)
	assert.Contains(t, out.Reply, "Con gusto te ayudo.")
}

func TestProductWritesNeedToken(t *testing.T) {
	h := newHarness(t)

	status, _ := h.do("POST", "/api/v1/products", map[string]interface{}{"name": "Regla", "price": 1500}, false)
	assert.Equal(t, http.StatusUnauthorized, status)

	h.createProduct("Regla", 4)

	status, _ = h.do("POST", "/api/v1/products", map[string]interface{}{"name": "Regla", "price": 1500}, true)
	assert.Equal(t, http.StatusConflict, status)

	status, _ = h.do("POST", "/api/v1/products", map[string]interface{}{"name": "Compás", "price": -1}, true)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAdjustStock(t *testing.T) {
	h := newHarness(t)
	p := h.createProduct("Cuaderno", 10)
	path := "/api/v1/products/" + p.ID.String() + "/stock"

	status, body := h.do("POST", path, map[string]interface{}{"quantity": 5, "operation": "add"}, true)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Equal(t, 15, decode[struct {
		Data model.Product `json:"data"`
	}](t, body).Data.Stock)

	status, _ = h.do("POST", path, map[string]interface{}{"quantity": 100, "operation": "subtract"}, true)
	assert.Equal(t, http.StatusConflict, status)

	status, _ = h.do("POST", path, map[string]interface{}{"quantity": 1, "operation": "steal"}, true)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestDeleteProduct(t *testing.T) {
	h := newHarness(t)
	unsold := h.createProduct("Compás", 2)
	sold := h.createProduct("Cuaderno", 10)

	status, _ := h.do("DELETE", "/api/v1/products/"+unsold.ID.String(), nil, false)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := h.do("DELETE", "/api/v1/products/"+unsold.ID.String(), nil, true)
	require.Equal(t, http.StatusNoContent, status, string(body))
	status, _ = h.do("GET", "/api/v1/products/"+unsold.ID.String(), nil, false)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = h.do("DELETE", "/api/v1/products/"+unsold.ID.String(), nil, true)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = h.do("POST", "/api/v1/chat/message", map[string]string{"message": "vendi 1 cuaderno", "sender": "caja"}, false)
	require.Equal(t, http.StatusOK, status)
	status, _ = h.do("DELETE", "/api/v1/products/"+sold.ID.String(), nil, true)
	assert.Equal(t, http.StatusConflict, status)
}

func TestCloseWithStoppedHub(t *testing.T) {
	h := newHarness(t)
	h.createProduct("Cuaderno", 500)
	h.app.stopHub()

	// more sales than the live feed can queue
	for i := 0; i < 80; i++ {
		status, _ := h.do("POST", "/api/v1/chat/message", map[string]string{"message": "vendi 1 cuaderno", "sender": "caja"}, false)
		require.Equal(t, http.StatusOK, status)
	}

	done := make(chan error, 1)
	go func() { done <- h.app.Close() }()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Close blocked on pending notifications")
	}
}

func TestProductLookups(t *testing.T) {
	h := newHarness(t)
	p := h.createProduct("Cuaderno", 3)

	status, _ := h.do("GET", "/api/v1/products/not-a-uuid", nil, false)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = h.do("GET", "/api/v1/products/6f1c2a7e-0000-4000-8000-000000000000", nil, false)
	assert.Equal(t, http.StatusNotFound, status)

	status, body := h.do("GET", "/api/v1/products/low-stock", nil, false)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]model.Product](t, body), 1)

	status, body = h.do("GET", "/api/v1/products/"+p.ID.String()+"/demand-prediction?days_ahead=15", nil, false)
	require.Equal(t, http.StatusOK, status)
	res := decode[model.ForecastResult](t, body)
	assert.False(t, res.Sufficient)
	assert.Equal(t, 15, res.DaysAhead)

	status, body = h.do("GET", "/api/v1/products/"+p.ID.String()+"/reorder-suggestion", nil, false)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 10, decode[model.ReorderSuggestion](t, body).SuggestedQuantity)

	status, _ = h.do("GET", "/api/v1/products/demand-alerts", nil, false)
	assert.Equal(t, http.StatusOK, status)
	status, _ = h.do("GET", "/api/v1/products/low-rotation", nil, false)
	assert.Equal(t, http.StatusOK, status)
}

func TestDashboard(t *testing.T) {
	h := newHarness(t)
	h.createProduct("Cuaderno", 10)
	h.do("POST", "/api/v1/chat/message", map[string]string{"message": "vendi 2 cuaderno"}, false)

	status, _ := h.do("GET", "/api/v1/dashboard/stats", nil, false)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := h.do("GET", "/api/v1/dashboard/stats", nil, true)
	require.Equal(t, http.StatusOK, status)
	stats := decode[map[string]interface{}](t, body)
	assert.EqualValues(t, 1, stats["total_products"])
	assert.EqualValues(t, 1, stats["sales_count"])

	status, _ = h.do("GET", "/api/v1/dashboard/sales-movement?days=3", nil, true)
	assert.Equal(t, http.StatusOK, status)
	status, _ = h.do("GET", "/api/v1/dashboard/top-sellers", nil, true)
	assert.Equal(t, http.StatusOK, status)
}

func TestProviders(t *testing.T) {
	h := newHarness(t)
	status, body := h.do("GET", "/api/v1/ai/providers", nil, false)
	require.Equal(t, http.StatusOK, status)

	got := decode[struct {
		Configured bool                `json:"configured"`
		Providers  []ai.ProviderStatus `json:"providers"`
	}](t, body)
	assert.True(t, got.Configured)
	require.Len(t, got.Providers, 3)
	assert.Equal(t, "openai", got.Providers[0].Name)
	assert.True(t, got.Providers[0].Preferred)
}
