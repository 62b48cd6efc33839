package export

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/avegas/cashfolio/internal/modules/ledger"
	"github.com/avegas/cashfolio/internal/modules/valuation"
)

// Handler handles portfolio export HTTP requests
type Handler struct {
	service *valuation.Service
	log     zerolog.Logger
}

// NewHandler creates a new export handler
func NewHandler(service *valuation.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "export").Logger(),
	}
}

type exportRequest struct {
	Holdings map[string]float64 `json:"holdings"`
}

// HandleCSV values the submitted holdings and streams a CSV summary
func (h *Handler) HandleCSV(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snapshot := h.service.Value(ledger.FromHoldings(req.Holdings))

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="portfolio.csv"`)
	w.WriteHeader(http.StatusOK)

	if err := WriteCSV(w, snapshot); err != nil {
		h.log.Error().Err(err).Msg("Failed to write CSV export")
	}
}

// HandleJSON values the submitted holdings and streams the snapshot as
// indented JSON
func (h *Handler) HandleJSON(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snapshot := h.service.Value(ledger.FromHoldings(req.Holdings))

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="portfolio.json"`)
	w.WriteHeader(http.StatusOK)

	if err := WriteJSON(w, snapshot); err != nil {
		h.log.Error().Err(err).Msg("Failed to write JSON export")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
