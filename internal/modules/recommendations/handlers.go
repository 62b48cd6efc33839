package recommendations

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles recommendation HTTP requests
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new recommendations handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "recommendations").Logger(),
	}
}

// HandleGet returns the recommendation view for one ticker. A provider
// failure yields an error payload carrying the ticker, not a throw.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(chi.URLParam(r, "ticker"))

	rec, err := h.service.ForTicker(ticker)
	if err != nil {
		h.log.Warn().Err(err).Str("ticker", ticker).Msg("Recommendation failed")
		h.writeJSON(w, http.StatusBadGateway, map[string]interface{}{
			"ticker": ticker,
			"error":  err.Error(),
		})
		return
	}

	h.writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
