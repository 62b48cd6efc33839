package ledger

import (
	"sort"
	"strings"
)

// Ledger maps normalized ticker symbols to share quantities. It is the
// only mutable state in the calculation core and is owned by a single
// caller per request/session; there is no internal locking.
type Ledger struct {
	holdings map[string]float64
}

// New creates an empty ledger
func New() *Ledger {
	return &Ledger{holdings: make(map[string]float64)}
}

// FromHoldings creates a ledger pre-populated from a symbol->shares map
func FromHoldings(holdings map[string]float64) *Ledger {
	l := New()
	for symbol, shares := range holdings {
		l.Add(symbol, shares)
	}
	return l
}

// Add adds shares to a position, creating it if absent. Symbols are
// normalized to uppercase; quantities may be fractional or negative
// (short positions and corrections are deltas).
func (l *Ledger) Add(symbol string, shares float64) {
	l.holdings[normalize(symbol)] += shares
}

// Remove deletes a position. Removing an absent symbol is a no-op.
func (l *Ledger) Remove(symbol string) {
	delete(l.holdings, normalize(symbol))
}

// Shares returns the quantity held for a symbol, zero if absent
func (l *Ledger) Shares(symbol string) float64 {
	return l.holdings[normalize(symbol)]
}

// Symbols returns all held symbols in sorted order
func (l *Ledger) Symbols() []string {
	symbols := make([]string, 0, len(l.holdings))
	for symbol := range l.holdings {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// Holdings returns a copy of the symbol->shares mapping
func (l *Ledger) Holdings() map[string]float64 {
	out := make(map[string]float64, len(l.holdings))
	for symbol, shares := range l.holdings {
		out[symbol] = shares
	}
	return out
}

// Len returns the number of positions
func (l *Ledger) Len() int {
	return len(l.holdings)
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
