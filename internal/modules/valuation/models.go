package valuation

// Position is a single valued holding. Degraded marks a position whose
// price lookup failed and was absorbed as zero, so callers can tell a
// worthless position from an unpriced one.
type Position struct {
	Shares   float64 `json:"shares"`
	Price    float64 `json:"price"`
	Value    float64 `json:"value"`
	Weight   float64 `json:"weight"`
	Degraded bool    `json:"degraded,omitempty"`
}

// Snapshot is a freshly computed portfolio valuation. It is a value
// object: constructed per call, never cached, and carries no reference
// back to the ledger it was computed from.
type Snapshot struct {
	TotalValue  float64             `json:"total_value"`
	Positions   map[string]Position `json:"positions"`
	LastUpdated *string             `json:"last_updated"` // RFC3339, null when nothing was fetched
}

// PerformanceEntry is per-symbol performance over a period. Error is
// set instead of the metrics when the symbol's lookup failed.
type PerformanceEntry struct {
	StartPrice        float64 `json:"start_price,omitempty"`
	CurrentPrice      float64 `json:"current_price,omitempty"`
	Change            float64 `json:"change,omitempty"`
	ChangePct         float64 `json:"change_pct,omitempty"`
	Shares            float64 `json:"shares,omitempty"`
	PositionChange    float64 `json:"position_change,omitempty"`
	PositionChangePct float64 `json:"position_change_pct,omitempty"`
	Volatility        float64 `json:"volatility,omitempty"`
	Error             string  `json:"error,omitempty"`
}
