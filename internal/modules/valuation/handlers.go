package valuation

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/avegas/cashfolio/internal/database"
	"github.com/avegas/cashfolio/internal/marketdata"
	"github.com/avegas/cashfolio/internal/modules/ledger"
)

// Handler handles portfolio valuation HTTP requests
type Handler struct {
	service   *Service
	snapshots *database.SnapshotRepository
	log       zerolog.Logger
}

// NewHandler creates a new valuation handler
func NewHandler(service *Service, snapshots *database.SnapshotRepository, log zerolog.Logger) *Handler {
	return &Handler{
		service:   service,
		snapshots: snapshots,
		log:       log.With().Str("handler", "valuation").Logger(),
	}
}

type valueRequest struct {
	Holdings map[string]float64 `json:"holdings"`
	Record   bool               `json:"record"`
}

// HandleValue values the submitted holdings and optionally records the
// snapshot for the history endpoint.
func (h *Handler) HandleValue(w http.ResponseWriter, r *http.Request) {
	var req valueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snapshot := h.service.Value(ledger.FromHoldings(req.Holdings))

	if req.Record && h.snapshots != nil {
		if err := h.snapshots.Save(time.Now(), snapshot.TotalValue, len(snapshot.Positions), snapshot.Positions); err != nil {
			h.log.Error().Err(err).Msg("Failed to record snapshot")
		}
	}

	h.writeJSON(w, http.StatusOK, snapshot)
}

type performanceRequest struct {
	Holdings map[string]float64 `json:"holdings"`
	Period   string             `json:"period"`
}

// HandlePerformance returns per-symbol performance for the submitted
// holdings over a period (default 1d).
func (h *Handler) HandlePerformance(w http.ResponseWriter, r *http.Request) {
	var req performanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Period == "" {
		req.Period = "1d"
	}
	if !marketdata.ValidPeriod(req.Period) {
		h.writeError(w, http.StatusBadRequest, "unsupported period: "+req.Period)
		return
	}

	performance := h.service.Performance(ledger.FromHoldings(req.Holdings), req.Period)
	h.writeJSON(w, http.StatusOK, performance)
}

// HandleHistory returns recorded valuation snapshots, newest first
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	days := 90
	if daysParam := r.URL.Query().Get("days"); daysParam != "" {
		if parsed, err := strconv.Atoi(daysParam); err == nil {
			days = parsed
		}
	}

	records, err := h.snapshots.GetHistory(days)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if records == nil {
		records = []database.SnapshotRecord{}
	}

	h.writeJSON(w, http.StatusOK, records)
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
