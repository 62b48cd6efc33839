package dca

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/avegas/cashfolio/internal/marketdata"
)

// Handler handles DCA simulation HTTP requests
type Handler struct {
	provider marketdata.Provider
	log      zerolog.Logger
}

// NewHandler creates a new DCA handler
func NewHandler(provider marketdata.Provider, log zerolog.Logger) *Handler {
	return &Handler{
		provider: provider,
		log:      log.With().Str("handler", "dca").Logger(),
	}
}

type simulateRequest struct {
	Ticker    string  `json:"ticker"`
	Amount    float64 `json:"amount"`
	Frequency string  `json:"frequency"`
	StartDate string  `json:"start_date"` // YYYY-MM-DD, optional
	EndDate   string  `json:"end_date"`   // YYYY-MM-DD, optional
}

// HandleSimulate runs a DCA simulation over the requested range,
// defaulting to the trailing year when no explicit range is given.
func (h *Handler) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Ticker = strings.TrimSpace(req.Ticker)
	if req.Ticker == "" {
		h.writeError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	series, err := h.fetchSeries(req)
	if err != nil {
		if errors.Is(err, marketdata.ErrNoData) {
			h.writeError(w, http.StatusNotFound, "No historical data available")
			return
		}
		if errors.Is(err, errBadDate) {
			h.writeError(w, http.StatusBadRequest, "dates must be in YYYY-MM-DD format")
			return
		}
		h.log.Error().Err(err).Str("ticker", req.Ticker).Msg("History lookup failed")
		h.writeError(w, http.StatusBadGateway, "failed to fetch historical data")
		return
	}

	result, err := Simulate(req.Ticker, series, req.Amount, ParseFrequency(req.Frequency))
	if err != nil {
		if errors.Is(err, marketdata.ErrNoData) {
			h.writeError(w, http.StatusNotFound, "No historical data available")
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

var errBadDate = errors.New("invalid date")

// fetchSeries loads the historical series for the requested range.
// Explicit dates pull the full history and trim it; otherwise the
// trailing year is used.
func (h *Handler) fetchSeries(req simulateRequest) ([]marketdata.PricePoint, error) {
	if req.StartDate == "" && req.EndDate == "" {
		return h.provider.History(req.Ticker, "1y")
	}

	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	series, err := h.provider.History(req.Ticker, "max")
	if err != nil {
		return nil, err
	}

	var trimmed []marketdata.PricePoint
	for _, bar := range series {
		if !start.IsZero() && bar.Date.Before(start) {
			continue
		}
		if !end.IsZero() && bar.Date.After(end) {
			continue
		}
		trimmed = append(trimmed, bar)
	}

	if len(trimmed) == 0 {
		return nil, marketdata.ErrNoData
	}

	return trimmed, nil
}

func parseRange(startDate, endDate string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if startDate != "" {
		start, err = time.Parse("2006-01-02", startDate)
		if err != nil {
			return start, end, errBadDate
		}
	}

	if endDate != "" {
		end, err = time.Parse("2006-01-02", endDate)
		if err != nil {
			return start, end, errBadDate
		}
		// Inclusive end date
		end = end.Add(24*time.Hour - time.Nanosecond)
	}

	return start, end, nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
