package quotes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/avegas/cashfolio/internal/marketdata"
)

// Handler handles quote and formatting HTTP requests
type Handler struct {
	provider  marketdata.Provider
	formatter *Formatter
	log       zerolog.Logger
}

// NewHandler creates a new quotes handler
func NewHandler(provider marketdata.Provider, formatter *Formatter, log zerolog.Logger) *Handler {
	return &Handler{
		provider:  provider,
		formatter: formatter,
		log:       log.With().Str("handler", "quotes").Logger(),
	}
}

// HandleQuote returns the current quote for one ticker
func (h *Handler) HandleQuote(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(chi.URLParam(r, "ticker"))

	quote, err := h.provider.Quote(ticker)
	if err != nil {
		h.log.Warn().Err(err).Str("ticker", ticker).Msg("Quote lookup failed")
		h.writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"ticker":        ticker,
		"name":          quote.Name,
		"price":         round2(quote.Price),
		"change":        round2(quote.Change),
		"changePercent": round2(quote.ChangePercent),
		"volume":        quote.Volume,
		"marketCap":     quote.MarketCap,
		"currency":      quote.Currency,
	})
}

// HandleHistory returns daily bars for charting
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(chi.URLParam(r, "ticker"))

	period := r.URL.Query().Get("period")
	if period == "" {
		period = "1mo"
	}
	if !marketdata.ValidPeriod(period) {
		h.writeError(w, http.StatusBadRequest, "unsupported period: "+period)
		return
	}

	series, err := h.provider.History(ticker, period)
	if err != nil {
		if errors.Is(err, marketdata.ErrNoData) {
			h.writeError(w, http.StatusNotFound, "No data available")
			return
		}
		h.log.Warn().Err(err).Str("ticker", ticker).Msg("History lookup failed")
		h.writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	data := make([]map[string]interface{}, 0, len(series))
	for _, bar := range series {
		data = append(data, map[string]interface{}{
			"date":   bar.Date.Format("2006-01-02"),
			"open":   round2(bar.Open),
			"high":   round2(bar.High),
			"low":    round2(bar.Low),
			"close":  round2(bar.Close),
			"volume": bar.Volume,
		})
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"ticker":  ticker,
		"data":    data,
	})
}

type batchRequest struct {
	Tickers []string `json:"tickers"`
}

// HandleBatch returns quotes for multiple tickers. Every requested
// ticker gets exactly one result entry; per-ticker failures are
// attached to their entry, never raised.
func (h *Handler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Tickers) == 0 {
		h.writeError(w, http.StatusBadRequest, "No tickers provided")
		return
	}

	results := make([]map[string]interface{}, 0, len(req.Tickers))
	for _, ticker := range req.Tickers {
		upper := strings.ToUpper(ticker)

		quote, err := h.provider.Quote(upper)
		if err != nil {
			results = append(results, map[string]interface{}{
				"ticker": upper,
				"error":  err.Error(),
			})
			continue
		}

		results = append(results, map[string]interface{}{
			"ticker":        upper,
			"name":          quote.Name,
			"price":         round2(quote.Price),
			"change":        round2(quote.Change),
			"changePercent": round2(quote.ChangePercent),
			"volume":        quote.Volume,
			"marketCap":     quote.MarketCap,
			"currency":      quote.Currency,
		})
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"results": results,
	})
}

// HandleFormat renders a ticker in a named view (quote, history, info)
func (h *Handler) HandleFormat(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(chi.URLParam(r, "ticker"))

	view := r.URL.Query().Get("view")
	if view == "" {
		view = ViewQuote
	}

	record, err := h.formatter.FormatTicker(ticker, view)
	if err != nil {
		if errors.Is(err, ErrUnknownView) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Warn().Err(err).Str("ticker", ticker).Str("view", view).Msg("Format failed")
		h.writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, record)
}

// HandleWatchlist renders quote rows for a comma-separated symbol list
func (h *Handler) HandleWatchlist(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("symbols")

	var symbols []string
	for _, s := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			symbols = append(symbols, trimmed)
		}
	}

	if len(symbols) == 0 {
		h.writeError(w, http.StatusBadRequest, "No symbols provided")
		return
	}

	start := time.Now()
	rows := h.formatter.Watchlist(symbols)
	h.log.Debug().Int("count", len(rows)).Dur("took", time.Since(start)).Msg("Watchlist built")

	h.writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
