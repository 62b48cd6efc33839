package quotes

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avegas/cashfolio/internal/marketdata"
)

// stubProvider serves canned market data for formatter and handler tests
type stubProvider struct {
	quotes   map[string]*marketdata.Quote
	history  map[string][]marketdata.PricePoint
	info     map[string]*marketdata.CompanyInfo
	quoteErr error
}

func (s *stubProvider) LatestPrice(symbol string) (float64, error) {
	quote, err := s.Quote(symbol)
	if err != nil {
		return 0, err
	}
	return quote.Price, nil
}

func (s *stubProvider) Quote(symbol string) (*marketdata.Quote, error) {
	if s.quoteErr != nil {
		return nil, s.quoteErr
	}
	quote, ok := s.quotes[symbol]
	if !ok {
		return nil, errors.New("quote unavailable")
	}
	return quote, nil
}

func (s *stubProvider) History(symbol, period string) ([]marketdata.PricePoint, error) {
	series, ok := s.history[symbol]
	if !ok {
		return nil, marketdata.ErrNoData
	}
	return series, nil
}

func (s *stubProvider) Info(symbol string) (*marketdata.CompanyInfo, error) {
	info, ok := s.info[symbol]
	if !ok {
		return nil, errors.New("info unavailable")
	}
	return info, nil
}

func (s *stubProvider) Analyst(symbol string) (*marketdata.AnalystData, error) {
	return nil, errors.New("not implemented")
}

func aaplProvider() *stubProvider {
	return &stubProvider{
		quotes: map[string]*marketdata.Quote{
			"AAPL": {
				Symbol:        "AAPL",
				Name:          "Apple Inc.",
				Price:         173.41,
				Change:        1.21,
				ChangePercent: 0.7,
				Volume:        52_000_000,
				MarketCap:     2_700_000_000_000,
				Currency:      "USD",
			},
		},
		history: map[string][]marketdata.PricePoint{
			"AAPL": {
				{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Close: 171.0, Volume: 100},
				{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Close: 173.41, Volume: 200},
			},
		},
		info: map[string]*marketdata.CompanyInfo{
			"AAPL": {
				Symbol:    "AAPL",
				Name:      "Apple Inc.",
				Sector:    "Technology",
				Industry:  "Consumer Electronics",
				Website:   "https://www.apple.com",
				Employees: 161000,
			},
		},
	}
}

func TestFormatTickerQuoteView(t *testing.T) {
	f := NewFormatter(aaplProvider(), zerolog.Nop())

	record, err := f.FormatTicker("aapl", ViewQuote)
	require.NoError(t, err)

	assert.Equal(t, "AAPL", record["symbol"])
	assert.Equal(t, "Apple Inc.", record["name"])
	assert.Equal(t, 173.41, record["price"])
	assert.Equal(t, "USD", record["currency"])
}

func TestFormatTickerHistoryView(t *testing.T) {
	f := NewFormatter(aaplProvider(), zerolog.Nop())

	record, err := f.FormatTicker("AAPL", ViewHistory)
	require.NoError(t, err)

	assert.Equal(t, "AAPL", record["symbol"])
	assert.Equal(t, []float64{171.0, 173.41}, record["prices"])
	assert.Equal(t, []int64{100, 200}, record["volumes"])
	assert.Len(t, record["dates"], 2)
}

func TestFormatTickerHistoryViewNoData(t *testing.T) {
	f := NewFormatter(&stubProvider{}, zerolog.Nop())

	record, err := f.FormatTicker("GONE", ViewHistory)
	require.NoError(t, err)

	assert.Empty(t, record)
}

func TestFormatTickerInfoView(t *testing.T) {
	f := NewFormatter(aaplProvider(), zerolog.Nop())

	record, err := f.FormatTicker("AAPL", ViewInfo)
	require.NoError(t, err)

	assert.Equal(t, "Apple Inc.", record["name"])
	assert.Equal(t, "Technology", record["sector"])
	assert.Equal(t, 161000, record["employees"])
}

func TestFormatTickerUnknownView(t *testing.T) {
	f := NewFormatter(aaplProvider(), zerolog.Nop())

	for _, symbol := range []string{"AAPL", "MSFT", "DOESNOTEXIST", ""} {
		_, err := f.FormatTicker(symbol, "bogus")

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnknownView))
	}
}

func TestFormatTickerUnknownViewBeatsProviderFailure(t *testing.T) {
	// View validation happens before any provider call
	f := NewFormatter(&stubProvider{quoteErr: errors.New("down")}, zerolog.Nop())

	_, err := f.FormatTicker("AAPL", "summary")

	assert.True(t, errors.Is(err, ErrUnknownView))
}

func TestWatchlist(t *testing.T) {
	f := NewFormatter(aaplProvider(), zerolog.Nop())

	rows := f.Watchlist([]string{"AAPL", "MISSING"})

	require.Len(t, rows, 2)
	assert.Equal(t, "Apple Inc.", rows[0]["name"])
	assert.NotContains(t, rows[0], "error")

	assert.Equal(t, "MISSING", rows[1]["symbol"])
	assert.Equal(t, 0.0, rows[1]["price"])
	assert.Equal(t, "quote unavailable", rows[1]["error"])
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, round2(1.234))
	assert.Equal(t, 2.68, round2(2.678))
	assert.Equal(t, -1.11, round2(-1.114))
}
