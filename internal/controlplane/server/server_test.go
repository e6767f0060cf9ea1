package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betbot/futuresbot/internal/trading"
	"github.com/betbot/futuresbot/internal/validation"
	"github.com/betbot/futuresbot/pkg/sdk/binance"
)

type fakeTrader struct {
	intents []trading.Intent
	resp    binance.Response
	err     error
}

func (f *fakeTrader) PlaceTrade(_ context.Context, intent trading.Intent) (binance.Response, error) {
	f.intents = append(f.intents, intent)
	return f.resp, f.err
}

func (f *fakeTrader) AccountInfo(context.Context) (binance.Response, error) {
	return f.resp, f.err
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestHealthz(t *testing.T) {
	rec, _ := do(t, New(&fakeTrader{}, nil).Router(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(headerRequestID))
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := New(&fakeTrader{}, nil).Router()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(headerRequestID, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(headerRequestID))
}

func TestPlaceOrderPassesResponseThrough(t *testing.T) {
	ft := &fakeTrader{resp: binance.Response{"orderId": "42", "status": "NEW"}}
	h := New(ft, nil).Router()

	rec, out := do(t, h, http.MethodPost, "/api/orders",
		`{"symbol":"btcusdt","side":"buy","type":"LIMIT","quantity":0.5,"price":100.5,"timeInForce":"IOC"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "42", out["orderId"])
	assert.Equal(t, "NEW", out["status"])

	require.Len(t, ft.intents, 1)
	got := ft.intents[0]
	assert.Equal(t, "btcusdt", got.Symbol)
	assert.Equal(t, "LIMIT", got.OrderType)
	assert.Equal(t, 0.5, got.Quantity)
	require.NotNil(t, got.Price)
	assert.Equal(t, 100.5, *got.Price)
	assert.Equal(t, "IOC", got.TimeInForce)
}

func TestPlaceOrderBadJSON(t *testing.T) {
	ft := &fakeTrader{}
	rec, _ := do(t, New(ft, nil).Router(), http.MethodPost, "/api/orders", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, ft.intents)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		check      func(t *testing.T, body map[string]any)
	}{
		{
			name: "validation",
			err: &validation.Error{
				Field: "quantity", Value: -1.0, Reason: "must be greater than 0", Kind: validation.ErrInvalidQuantity,
			},
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "quantity", body["field"])
				assert.Equal(t, -1.0, body["value"])
			},
		},
		{
			name:       "exchange 4xx is passed through",
			err:        &binance.ExchangeError{Code: -1013, Message: "Filter failure: LOT_SIZE", Status: 400},
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, float64(-1013), body["code"])
				assert.Equal(t, "Filter failure: LOT_SIZE", body["msg"])
			},
		},
		{
			name:       "exchange 5xx becomes bad gateway",
			err:        &binance.ExchangeError{Code: binance.CodeUnknown, Message: "<html>down</html>", Status: 503},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "transport",
			err:        &binance.TransportError{Cause: assert.AnError},
			wantStatus: http.StatusBadGateway,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, true, body["retryable"])
			},
		},
		{
			name:       "transport timeout",
			err:        &binance.TransportError{Cause: context.DeadlineExceeded},
			wantStatus: http.StatusGatewayTimeout,
		},
		{
			name:       "anything else",
			err:        assert.AnError,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(&fakeTrader{err: tt.err}, nil).Router()
			rec, body := do(t, h, http.MethodPost, "/api/orders", `{"symbol":"BTCUSDT"}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.check != nil {
				tt.check(t, body)
			}
		})
	}
}

func TestAccount(t *testing.T) {
	ft := &fakeTrader{resp: binance.Response{"totalWalletBalance": "1000.00"}}
	rec, out := do(t, New(ft, nil).Router(), http.MethodGet, "/api/account", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1000.00", out["totalWalletBalance"])
}
