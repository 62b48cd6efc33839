package valuation

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/avegas/cashfolio/internal/marketdata"
	"github.com/avegas/cashfolio/internal/modules/ledger"
	"github.com/avegas/cashfolio/pkg/formulas"
)

// MarketData is the slice of the provider the valuation engine needs
type MarketData interface {
	LatestPrice(symbol string) (float64, error)
	History(symbol string, period string) ([]marketdata.PricePoint, error)
}

// Service computes portfolio valuations. It never mutates the ledger
// it is handed.
type Service struct {
	provider MarketData
	log      zerolog.Logger
}

// NewService creates a new valuation service
func NewService(provider MarketData, log zerolog.Logger) *Service {
	return &Service{
		provider: provider,
		log:      log.With().Str("service", "valuation").Logger(),
	}
}

// Value prices every ledger position and computes allocation weights.
// A failed lookup is absorbed as a zero price and the position marked
// degraded; one symbol's failure never fails the valuation.
func (s *Service) Value(l *ledger.Ledger) Snapshot {
	positions := make(map[string]Position, l.Len())

	if l.Len() == 0 {
		return Snapshot{TotalValue: 0, Positions: positions, LastUpdated: nil}
	}

	totalValue := 0.0
	for _, symbol := range l.Symbols() {
		shares := l.Shares(symbol)

		price, err := s.provider.LatestPrice(symbol)
		degraded := false
		if err != nil {
			s.log.Warn().Err(err).Str("symbol", symbol).Msg("Price lookup failed, valuing at zero")
			price = 0
			degraded = true
		}

		value := shares * price
		totalValue += value

		positions[symbol] = Position{
			Shares:   shares,
			Price:    price,
			Value:    value,
			Degraded: degraded,
		}
	}

	// Weights only when there is value to weigh against
	if totalValue > 0 {
		for symbol, pos := range positions {
			pos.Weight = pos.Value / totalValue * 100
			positions[symbol] = pos
		}
	}

	lastUpdated := time.Now().Format(time.RFC3339)

	return Snapshot{
		TotalValue:  totalValue,
		Positions:   positions,
		LastUpdated: &lastUpdated,
	}
}

// Performance computes per-symbol performance over a history period.
// Lookup failures are captured per symbol, not raised.
func (s *Service) Performance(l *ledger.Ledger, period string) map[string]PerformanceEntry {
	performance := make(map[string]PerformanceEntry, l.Len())

	for _, symbol := range l.Symbols() {
		series, err := s.provider.History(symbol, period)
		if err != nil {
			performance[symbol] = PerformanceEntry{Error: err.Error()}
			continue
		}
		if len(series) == 0 {
			performance[symbol] = PerformanceEntry{Error: marketdata.ErrNoData.Error()}
			continue
		}

		closes := make([]float64, len(series))
		for i, bar := range series {
			closes[i] = bar.Close
		}

		startPrice := closes[0]
		currentPrice := closes[len(closes)-1]
		change := currentPrice - startPrice

		changePct := 0.0
		if startPrice > 0 {
			changePct = change / startPrice * 100
		}

		shares := l.Shares(symbol)

		performance[symbol] = PerformanceEntry{
			StartPrice:        startPrice,
			CurrentPrice:      currentPrice,
			Change:            change,
			ChangePct:         changePct,
			Shares:            shares,
			PositionChange:    change * shares,
			PositionChangePct: changePct,
			Volatility:        formulas.AnnualizedVolatility(formulas.Returns(closes)),
		}
	}

	return performance
}
