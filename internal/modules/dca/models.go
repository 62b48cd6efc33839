package dca

import "strings"

// Frequency is the contribution cadence of a DCA plan
type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

// ParseFrequency normalizes a frequency string. Unrecognized values
// fall back to monthly.
func ParseFrequency(s string) Frequency {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily":
		return Daily
	case "weekly":
		return Weekly
	case "monthly":
		return Monthly
	default:
		return Monthly
	}
}

// Transaction is one periodic buy. Immutable once produced; the
// simulation appends them in timestamp order.
type Transaction struct {
	Date               string  `json:"date"` // RFC3339
	Price              float64 `json:"price"`
	Amount             float64 `json:"amount"`
	Shares             float64 `json:"shares"`
	CumulativeShares   float64 `json:"cumulative_shares"`
	CumulativeInvested float64 `json:"cumulative_invested"`
}

// Result summarizes a replayed dollar-cost-averaging strategy
type Result struct {
	Ticker           string        `json:"ticker"`
	Strategy         string        `json:"strategy"`
	Frequency        Frequency     `json:"frequency"`
	AmountPerPeriod  float64       `json:"amount_per_period"`
	StartDate        string        `json:"start_date"`
	EndDate          string        `json:"end_date"`
	TotalPeriods     int           `json:"total_periods"`
	TotalInvested    float64       `json:"total_invested"`
	TotalShares      float64       `json:"total_shares"`
	AverageCostBasis float64       `json:"average_cost_basis"`
	CurrentPrice     float64       `json:"current_price"`
	CurrentValue     float64       `json:"current_value"`
	TotalReturn      float64       `json:"total_return"`
	TotalReturnPct   float64       `json:"total_return_pct"`
	Transactions     []Transaction `json:"transactions"`
}
