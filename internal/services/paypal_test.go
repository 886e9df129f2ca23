package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookhaven/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPayPal(t *testing.T, handler http.Handler) *PayPalService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	service := NewPayPalService(PayPalConfig{
		ClientID:    "client-id",
		Secret:      "client-secret",
		Environment: "sandbox",
		Currency:    "USD",
	})
	service.baseURL = server.URL
	return service
}

func TestPayPalService_CreateOrder(t *testing.T) {
	var gotRequestID string
	var gotOrder PayPalOrderRequest

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "client-secret", pass)
		json.NewEncoder(w).Encode(tokenResponse{AccessToken: "tok", TokenType: "Bearer", ExpiresIn: 3600})
	})
	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		gotRequestID = r.Header.Get("PayPal-Request-Id")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotOrder))

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(PayPalOrder{
			ID:     "5O190127TN364715T",
			Status: "CREATED",
			Links: []PayPalLink{{
				Href: "https://www.sandbox.paypal.com/checkoutnow?token=5O190127TN364715T",
				Rel:  "approve",
			}},
		})
	})

	service := newTestPayPal(t, mux)

	books := []*models.Book{
		{ID: 1, Title: "Dune", Price: 1299},
		{ID: 2, Title: "Foundation", Price: 999},
	}
	order, err := service.CreateOrder(books)
	require.NoError(t, err)

	assert.Equal(t, "5O190127TN364715T", order.ID)
	assert.Equal(t, "CREATED", order.Status)
	assert.NotEmpty(t, order.ApproveURL())
	assert.NotEmpty(t, gotRequestID)

	assert.Equal(t, "CAPTURE", gotOrder.Intent)
	require.Len(t, gotOrder.PurchaseUnits, 1)
	unit := gotOrder.PurchaseUnits[0]
	assert.Equal(t, "22.98", unit.Amount.Value)
	require.NotNil(t, unit.Amount.Breakdown)
	assert.Equal(t, "22.98", unit.Amount.Breakdown.ItemTotal.Value)
	require.Len(t, unit.Items, 2)
	assert.Equal(t, "Dune", unit.Items[0].Name)
	assert.Equal(t, "12.99", unit.Items[0].UnitAmount.Value)
}

func TestPayPalService_CaptureOrder(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(tokenResponse{AccessToken: "tok", ExpiresIn: 3600})
	})
	mux.HandleFunc("/v2/checkout/orders/5O190127TN364715T/capture", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(PayPalOrder{ID: "5O190127TN364715T", Status: "COMPLETED"})
	})

	service := newTestPayPal(t, mux)

	order, err := service.CaptureOrder("5O190127TN364715T")
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", order.Status)
}

func TestPayPalService_TokenCached(t *testing.T) {
	tokenCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		json.NewEncoder(w).Encode(tokenResponse{AccessToken: "tok", ExpiresIn: 3600})
	})
	mux.HandleFunc("/v2/checkout/orders/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(PayPalOrder{ID: "X", Status: "CREATED"})
	})

	service := newTestPayPal(t, mux)

	_, err := service.GetOrder("X")
	require.NoError(t, err)
	_, err = service.GetOrder("X")
	require.NoError(t, err)
	assert.Equal(t, 1, tokenCalls)
}

func TestPayPalService_TokenRefreshOnExpiry(t *testing.T) {
	tokenCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		json.NewEncoder(w).Encode(tokenResponse{AccessToken: "tok", ExpiresIn: 3600})
	})
	mux.HandleFunc("/v2/checkout/orders/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(PayPalOrder{ID: "X", Status: "CREATED"})
	})

	service := newTestPayPal(t, mux)

	_, err := service.GetOrder("X")
	require.NoError(t, err)

	service.mu.Lock()
	service.tokenExpiry = time.Now().Add(-time.Minute)
	service.mu.Unlock()

	_, err = service.GetOrder("X")
	require.NoError(t, err)
	assert.Equal(t, 2, tokenCalls)
}

func TestPayPalService_APIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(tokenResponse{AccessToken: "tok", ExpiresIn: 3600})
	})
	mux.HandleFunc("/v2/checkout/orders/MISSING", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(PayPalError{Name: "RESOURCE_NOT_FOUND", Message: "The specified resource does not exist."})
	})

	service := newTestPayPal(t, mux)

	_, err := service.GetOrder("MISSING")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "12.99", formatAmount(1299))
	assert.Equal(t, "0.05", formatAmount(5))
	assert.Equal(t, "10.00", formatAmount(1000))
	assert.Equal(t, "0.00", formatAmount(0))
}
