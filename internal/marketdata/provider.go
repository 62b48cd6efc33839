package marketdata

import (
	"errors"
	"time"
)

// ErrNoData indicates a history request that yielded an empty series.
// It is a legitimate "nothing to show" outcome, distinct from a
// provider being unreachable.
var ErrNoData = errors.New("no historical data available")

// PricePoint is a single OHLCV bar, daily granularity
type PricePoint struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Quote is a point-in-time market quote
type Quote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	PreviousClose float64 `json:"previous_close"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Volume        int64   `json:"volume"`
	MarketCap     int64   `json:"market_cap"`
	Currency      string  `json:"currency"`
}

// CompanyInfo describes the company behind a symbol
type CompanyInfo struct {
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Sector      string `json:"sector"`
	Industry    string `json:"industry"`
	Description string `json:"description"`
	Website     string `json:"website"`
	Employees   int    `json:"employees"`
}

// AnalystData contains analyst recommendations and price targets
type AnalystData struct {
	Symbol             string  `json:"symbol"`
	Recommendation     string  `json:"recommendation"`
	RecommendationMean float64 `json:"recommendation_mean"`
	TargetPrice        float64 `json:"target_price"`
	CurrentPrice       float64 `json:"current_price"`
	NumAnalysts        int     `json:"num_analysts"`
}

// Provider supplies market data for a symbol. History returns bars in
// ascending date order; implementations return ErrNoData when the
// requested range holds no bars.
type Provider interface {
	LatestPrice(symbol string) (float64, error)
	History(symbol string, period string) ([]PricePoint, error)
	Quote(symbol string) (*Quote, error)
	Info(symbol string) (*CompanyInfo, error)
	Analyst(symbol string) (*AnalystData, error)
}

// ValidPeriod reports whether the chart range is one the provider accepts
func ValidPeriod(period string) bool {
	switch period {
	case "1d", "5d", "1mo", "3mo", "6mo", "1y", "2y", "5y", "10y", "ytd", "max":
		return true
	}
	return false
}
