package quotes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(provider *stubProvider) *chi.Mux {
	formatter := NewFormatter(provider, zerolog.Nop())
	h := NewHandler(provider, formatter, zerolog.Nop())

	r := chi.NewRouter()
	r.Get("/api/quote/{ticker}", h.HandleQuote)
	r.Get("/api/history/{ticker}", h.HandleHistory)
	r.Post("/api/batch", h.HandleBatch)
	r.Get("/api/ticker/{ticker}/format", h.HandleFormat)
	r.Get("/api/watchlist", h.HandleWatchlist)
	return r
}

func doRequest(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestHandleQuote(t *testing.T) {
	r := newTestRouter(aaplProvider())

	w := doRequest(t, r, "GET", "/api/quote/aapl", "")

	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody(t, w)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "AAPL", resp["ticker"])
	assert.Equal(t, 173.41, resp["price"])
}

func TestHandleQuoteProviderFailure(t *testing.T) {
	r := newTestRouter(&stubProvider{})

	w := doRequest(t, r, "GET", "/api/quote/GONE", "")

	assert.Equal(t, http.StatusBadGateway, w.Code)

	resp := decodeBody(t, w)
	assert.Equal(t, false, resp["success"])
}

func TestHandleHistory(t *testing.T) {
	r := newTestRouter(aaplProvider())

	w := doRequest(t, r, "GET", "/api/history/AAPL?period=1mo", "")

	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody(t, w)
	data := resp["data"].([]interface{})
	assert.Len(t, data, 2)
}

func TestHandleHistoryInvalidPeriod(t *testing.T) {
	r := newTestRouter(aaplProvider())

	w := doRequest(t, r, "GET", "/api/history/AAPL?period=7y", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleHistoryNoData(t *testing.T) {
	r := newTestRouter(&stubProvider{})

	w := doRequest(t, r, "GET", "/api/history/GONE", "")

	assert.Equal(t, http.StatusNotFound, w.Code)

	resp := decodeBody(t, w)
	assert.Equal(t, "No data available", resp["error"])
}

func TestHandleBatch(t *testing.T) {
	r := newTestRouter(aaplProvider())

	w := doRequest(t, r, "POST", "/api/batch", `{"tickers": ["aapl", "MISSING"]}`)

	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody(t, w)
	results := resp["results"].([]interface{})
	require.Len(t, results, 2)

	first := results[0].(map[string]interface{})
	assert.Equal(t, "AAPL", first["ticker"])
	assert.Equal(t, 173.41, first["price"])

	second := results[1].(map[string]interface{})
	assert.Equal(t, "MISSING", second["ticker"])
	assert.Equal(t, "quote unavailable", second["error"])
	assert.NotContains(t, second, "price")
}

func TestHandleBatchEmptyTickers(t *testing.T) {
	r := newTestRouter(aaplProvider())

	w := doRequest(t, r, "POST", "/api/batch", `{"tickers": []}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeBody(t, w)
	assert.Equal(t, "No tickers provided", resp["error"])
}

func TestHandleFormatDefaultsToQuoteView(t *testing.T) {
	r := newTestRouter(aaplProvider())

	w := doRequest(t, r, "GET", "/api/ticker/AAPL/format", "")

	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody(t, w)
	assert.Equal(t, "Apple Inc.", resp["name"])
}

func TestHandleFormatUnknownView(t *testing.T) {
	r := newTestRouter(aaplProvider())

	w := doRequest(t, r, "GET", "/api/ticker/AAPL/format?view=bogus", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeBody(t, w)
	assert.Contains(t, resp["error"], "unknown view type")
}

func TestHandleWatchlist(t *testing.T) {
	r := newTestRouter(aaplProvider())

	w := doRequest(t, r, "GET", "/api/watchlist?symbols=AAPL,%20MISSING", "")

	assert.Equal(t, http.StatusOK, w.Code)

	var rows []map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "AAPL", rows[0]["symbol"])
	assert.Equal(t, "MISSING", rows[1]["symbol"])
}

func TestHandleWatchlistNoSymbols(t *testing.T) {
	r := newTestRouter(aaplProvider())

	w := doRequest(t, r, "GET", "/api/watchlist", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
