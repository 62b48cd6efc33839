package quotes

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/avegas/cashfolio/internal/marketdata"
)

// ErrUnknownView is returned for an unrecognized view type. Unknown
// views are an input error, never a silent fallback.
var ErrUnknownView = errors.New("unknown view type")

// Recognized presentation views
const (
	ViewQuote   = "quote"
	ViewHistory = "history"
	ViewInfo    = "info"
)

// Formatter maps provider data into flat, externally consumable
// records. No business logic lives here.
type Formatter struct {
	provider marketdata.Provider
	log      zerolog.Logger
}

// NewFormatter creates a new formatter
func NewFormatter(provider marketdata.Provider, log zerolog.Logger) *Formatter {
	return &Formatter{
		provider: provider,
		log:      log.With().Str("component", "formatter").Logger(),
	}
}

// FormatTicker renders one ticker in the requested view. Views are
// quote, history, and info; anything else returns ErrUnknownView.
func (f *Formatter) FormatTicker(symbol, view string) (map[string]interface{}, error) {
	switch view {
	case ViewQuote:
		return f.formatQuote(symbol)
	case ViewHistory:
		return f.formatHistory(symbol)
	case ViewInfo:
		return f.formatInfo(symbol)
	default:
		return nil, fmt.Errorf("%w: %q (use quote, history, or info)", ErrUnknownView, view)
	}
}

func (f *Formatter) formatQuote(symbol string) (map[string]interface{}, error) {
	quote, err := f.provider.Quote(symbol)
	if err != nil {
		return nil, err
	}

	name := quote.Name
	if name == "" {
		name = strings.ToUpper(symbol)
	}

	return map[string]interface{}{
		"symbol":         strings.ToUpper(symbol),
		"name":           name,
		"price":          quote.Price,
		"change":         quote.Change,
		"change_percent": quote.ChangePercent,
		"volume":         quote.Volume,
		"market_cap":     quote.MarketCap,
		"currency":       quote.Currency,
	}, nil
}

func (f *Formatter) formatHistory(symbol string) (map[string]interface{}, error) {
	series, err := f.provider.History(symbol, "1mo")
	if errors.Is(err, marketdata.ErrNoData) {
		// An empty month of history renders as an empty record
		return map[string]interface{}{}, nil
	}
	if err != nil {
		return nil, err
	}

	dates := make([]string, len(series))
	prices := make([]float64, len(series))
	volumes := make([]int64, len(series))
	for i, bar := range series {
		dates[i] = bar.Date.Format(time.RFC3339)
		prices[i] = bar.Close
		volumes[i] = bar.Volume
	}

	return map[string]interface{}{
		"symbol":  strings.ToUpper(symbol),
		"dates":   dates,
		"prices":  prices,
		"volumes": volumes,
	}, nil
}

func (f *Formatter) formatInfo(symbol string) (map[string]interface{}, error) {
	info, err := f.provider.Info(symbol)
	if err != nil {
		return nil, err
	}

	name := info.Name
	if name == "" {
		name = strings.ToUpper(symbol)
	}

	return map[string]interface{}{
		"symbol":      strings.ToUpper(symbol),
		"name":        name,
		"sector":      info.Sector,
		"industry":    info.Industry,
		"description": info.Description,
		"website":     info.Website,
		"employees":   info.Employees,
	}, nil
}

// Watchlist renders quote rows for a list of symbols. A failed symbol
// yields a zeroed row carrying its error instead of failing the list.
func (f *Formatter) Watchlist(symbols []string) []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, len(symbols))

	for _, symbol := range symbols {
		row, err := f.formatQuote(symbol)
		if err != nil {
			f.log.Warn().Err(err).Str("symbol", symbol).Msg("Watchlist quote failed")
			row = map[string]interface{}{
				"symbol":         strings.ToUpper(symbol),
				"name":           strings.ToUpper(symbol),
				"price":          0.0,
				"change":         0.0,
				"change_percent": 0.0,
				"volume":         0,
				"market_cap":     0,
				"currency":       "USD",
				"error":          err.Error(),
			}
		}
		rows = append(rows, row)
	}

	return rows
}

// round2 rounds to two decimals for presentation only; core math is
// never rounded.
func round2(val float64) float64 {
	return math.Round(val*100) / 100
}
