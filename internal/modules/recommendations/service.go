package recommendations

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/avegas/cashfolio/internal/marketdata"
	"github.com/avegas/cashfolio/pkg/formulas"
)

// Recommendation combines analyst data with a technical read suitable
// for a retail-facing view.
type Recommendation struct {
	Ticker             string           `json:"ticker"`
	CurrentPrice       float64          `json:"current_price"`
	TargetPrice        float64          `json:"target_price"`
	UpsidePotentialPct float64          `json:"upside_potential_pct"`
	Recommendation     string           `json:"recommendation"`
	RecommendationMean float64          `json:"recommendation_mean"`
	NumAnalysts        int              `json:"num_analysts"`
	Technical          *TechnicalSignal `json:"technical,omitempty"`
	RiskLevel          string           `json:"risk_level"`
	SuitableFor        []string         `json:"suitable_for"`
}

// TechnicalSignal is an indicator-based read over recent closes
type TechnicalSignal struct {
	RSI    *float64 `json:"rsi,omitempty"`
	SMA20  *float64 `json:"sma_20,omitempty"`
	SMA50  *float64 `json:"sma_50,omitempty"`
	Signal string   `json:"signal"`
}

// Service builds recommendations from provider data
type Service struct {
	provider marketdata.Provider
	log      zerolog.Logger
}

// NewService creates a new recommendations service
func NewService(provider marketdata.Provider, log zerolog.Logger) *Service {
	return &Service{
		provider: provider,
		log:      log.With().Str("service", "recommendations").Logger(),
	}
}

// ForTicker builds the recommendation view for one symbol
func (s *Service) ForTicker(symbol string) (*Recommendation, error) {
	upper := strings.ToUpper(symbol)

	analyst, err := s.provider.Analyst(upper)
	if err != nil {
		return nil, fmt.Errorf("failed to get analyst data: %w", err)
	}

	upsidePct := 0.0
	if analyst.CurrentPrice > 0 && analyst.TargetPrice > 0 {
		upsidePct = (analyst.TargetPrice - analyst.CurrentPrice) / analyst.CurrentPrice * 100
	}

	rec := &Recommendation{
		Ticker:             upper,
		CurrentPrice:       analyst.CurrentPrice,
		TargetPrice:        analyst.TargetPrice,
		UpsidePotentialPct: upsidePct,
		Recommendation:     analyst.Recommendation,
		RecommendationMean: analyst.RecommendationMean,
		NumAnalysts:        analyst.NumAnalysts,
		RiskLevel:          "Moderate",
		SuitableFor:        []string{"Long-term investors", "DCA strategy"},
	}

	// Technical read is best-effort: missing history just omits it
	technical, err := s.technicalSignal(upper)
	if err != nil {
		s.log.Debug().Err(err).Str("symbol", upper).Msg("Skipping technical signal")
	} else {
		rec.Technical = technical
	}

	return rec, nil
}

func (s *Service) technicalSignal(symbol string) (*TechnicalSignal, error) {
	series, err := s.provider.History(symbol, "6mo")
	if err != nil {
		return nil, err
	}

	closes := make([]float64, len(series))
	for i, bar := range series {
		closes[i] = bar.Close
	}

	rsi := formulas.RSI(closes, 14)
	sma20 := formulas.SMA(closes, 20)
	sma50 := formulas.SMA(closes, 50)

	return &TechnicalSignal{
		RSI:    rsi,
		SMA20:  sma20,
		SMA50:  sma50,
		Signal: classify(rsi, sma20, sma50),
	}, nil
}

// classify turns RSI and moving-average posture into buy/hold/sell
func classify(rsi, sma20, sma50 *float64) string {
	if rsi == nil || sma20 == nil || sma50 == nil {
		return "hold"
	}

	uptrend := *sma20 > *sma50

	switch {
	case *rsi < 30 && uptrend:
		return "buy"
	case *rsi > 70 && !uptrend:
		return "sell"
	default:
		return "hold"
	}
}
