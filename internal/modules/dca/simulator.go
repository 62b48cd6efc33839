package dca

import (
	"strings"
	"time"

	"github.com/avegas/cashfolio/internal/marketdata"
)

// Simulate replays a periodic-buy strategy over a historical series.
// The series must be in ascending date order; the current price is the
// last close of the original series, not the resampled one. Zero or
// negative period prices are not filtered: the provider is trusted to
// supply sane data.
func Simulate(ticker string, series []marketdata.PricePoint, amount float64, freq Frequency) (*Result, error) {
	periods := Resample(series, freq)
	if len(periods) == 0 {
		return nil, marketdata.ErrNoData
	}

	var (
		totalInvested float64
		totalShares   float64
		transactions  = make([]Transaction, 0, len(periods))
	)

	for _, period := range periods {
		sharesBought := amount / period.Close
		totalInvested += amount
		totalShares += sharesBought

		transactions = append(transactions, Transaction{
			Date:               period.Date.Format(time.RFC3339),
			Price:              period.Close,
			Amount:             amount,
			Shares:             sharesBought,
			CumulativeShares:   totalShares,
			CumulativeInvested: totalInvested,
		})
	}

	currentPrice := series[len(series)-1].Close
	currentValue := totalShares * currentPrice
	totalReturn := currentValue - totalInvested

	totalReturnPct := 0.0
	if totalInvested > 0 {
		totalReturnPct = totalReturn / totalInvested * 100
	}

	avgCost := 0.0
	if totalShares > 0 {
		avgCost = totalInvested / totalShares
	}

	return &Result{
		Ticker:           strings.ToUpper(ticker),
		Strategy:         "Dollar-Cost Averaging",
		Frequency:        freq,
		AmountPerPeriod:  amount,
		StartDate:        periods[0].Date.Format(time.RFC3339),
		EndDate:          periods[len(periods)-1].Date.Format(time.RFC3339),
		TotalPeriods:     len(transactions),
		TotalInvested:    totalInvested,
		TotalShares:      totalShares,
		AverageCostBasis: avgCost,
		CurrentPrice:     currentPrice,
		CurrentValue:     currentValue,
		TotalReturn:      totalReturn,
		TotalReturnPct:   totalReturnPct,
		Transactions:     transactions,
	}, nil
}
