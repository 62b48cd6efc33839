package recommendations

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avegas/cashfolio/internal/marketdata"
)

type stubProvider struct {
	analyst    *marketdata.AnalystData
	analystErr error
	history    []marketdata.PricePoint
	historyErr error
}

func (s *stubProvider) LatestPrice(symbol string) (float64, error) { return 0, nil }

func (s *stubProvider) History(symbol, period string) ([]marketdata.PricePoint, error) {
	return s.history, s.historyErr
}

func (s *stubProvider) Quote(symbol string) (*marketdata.Quote, error)      { return nil, nil }
func (s *stubProvider) Info(symbol string) (*marketdata.CompanyInfo, error) { return nil, nil }

func (s *stubProvider) Analyst(symbol string) (*marketdata.AnalystData, error) {
	return s.analyst, s.analystErr
}

func ptr(f float64) *float64 { return &f }

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		rsi   *float64
		sma20 *float64
		sma50 *float64
		want  string
	}{
		{"oversold in uptrend", ptr(25), ptr(110), ptr(100), "buy"},
		{"overbought in downtrend", ptr(75), ptr(90), ptr(100), "sell"},
		{"oversold in downtrend", ptr(25), ptr(90), ptr(100), "hold"},
		{"overbought in uptrend", ptr(75), ptr(110), ptr(100), "hold"},
		{"neutral rsi", ptr(50), ptr(110), ptr(100), "hold"},
		{"missing rsi", nil, ptr(110), ptr(100), "hold"},
		{"missing sma", ptr(25), nil, ptr(100), "hold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.rsi, tt.sma20, tt.sma50))
		})
	}
}

func TestForTicker(t *testing.T) {
	provider := &stubProvider{
		analyst: &marketdata.AnalystData{
			Symbol:             "AAPL",
			Recommendation:     "buy",
			RecommendationMean: 1.8,
			TargetPrice:        200,
			CurrentPrice:       160,
			NumAnalysts:        32,
		},
		historyErr: marketdata.ErrNoData,
	}
	svc := NewService(provider, zerolog.Nop())

	rec, err := svc.ForTicker("aapl")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", rec.Ticker)
	assert.Equal(t, 160.0, rec.CurrentPrice)
	assert.Equal(t, 200.0, rec.TargetPrice)
	assert.InDelta(t, 25.0, rec.UpsidePotentialPct, 1e-9)
	assert.Equal(t, "buy", rec.Recommendation)
	assert.Equal(t, "Moderate", rec.RiskLevel)
	// Missing history just omits the technical read
	assert.Nil(t, rec.Technical)
}

func TestForTickerWithHistory(t *testing.T) {
	series := make([]marketdata.PricePoint, 120)
	for i := range series {
		series[i] = marketdata.PricePoint{Close: 100 + float64(i)*0.5}
	}

	provider := &stubProvider{
		analyst: &marketdata.AnalystData{CurrentPrice: 160, TargetPrice: 150},
		history: series,
	}
	svc := NewService(provider, zerolog.Nop())

	rec, err := svc.ForTicker("AAPL")
	require.NoError(t, err)

	require.NotNil(t, rec.Technical)
	require.NotNil(t, rec.Technical.RSI)
	require.NotNil(t, rec.Technical.SMA20)
	require.NotNil(t, rec.Technical.SMA50)
	// Strictly rising closes: short average above long
	assert.Greater(t, *rec.Technical.SMA20, *rec.Technical.SMA50)
	assert.NotEmpty(t, rec.Technical.Signal)
}

func TestForTickerAnalystFailure(t *testing.T) {
	provider := &stubProvider{analystErr: errors.New("provider unavailable")}
	svc := NewService(provider, zerolog.Nop())

	_, err := svc.ForTicker("AAPL")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "analyst data")
}

func TestForTickerNoUpsideWhenPricesMissing(t *testing.T) {
	provider := &stubProvider{
		analyst:    &marketdata.AnalystData{TargetPrice: 200},
		historyErr: marketdata.ErrNoData,
	}
	svc := NewService(provider, zerolog.Nop())

	rec, err := svc.ForTicker("AAPL")
	require.NoError(t, err)

	assert.Equal(t, 0.0, rec.UpsidePotentialPct)
}
