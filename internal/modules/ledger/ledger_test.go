package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddAccumulates(t *testing.T) {
	l := New()

	l.Add("AAPL", 10)
	l.Add("AAPL", 5.5)

	assert.Equal(t, 15.5, l.Shares("AAPL"))
	assert.Equal(t, 1, l.Len())
}

func TestAddNormalizesSymbol(t *testing.T) {
	l := New()

	l.Add("aapl", 10)
	l.Add(" AaPl ", 2)

	assert.Equal(t, 12.0, l.Shares("AAPL"))
	assert.Equal(t, []string{"AAPL"}, l.Symbols())
}

func TestAddNegativeDelta(t *testing.T) {
	l := New()

	l.Add("MSFT", 10)
	l.Add("MSFT", -4)

	assert.Equal(t, 6.0, l.Shares("MSFT"))
}

func TestRemove(t *testing.T) {
	l := New()
	l.Add("AAPL", 10)

	l.Remove("aapl")

	assert.Equal(t, 0, l.Len())
	assert.Equal(t, 0.0, l.Shares("AAPL"))
}

func TestRemoveAbsentIsNoOp(t *testing.T) {
	l := New()
	l.Add("AAPL", 10)

	l.Remove("GOOGL")

	assert.Equal(t, 1, l.Len())
	assert.Equal(t, 10.0, l.Shares("AAPL"))
}

func TestSymbolsSorted(t *testing.T) {
	l := New()
	l.Add("MSFT", 1)
	l.Add("AAPL", 1)
	l.Add("GOOGL", 1)

	assert.Equal(t, []string{"AAPL", "GOOGL", "MSFT"}, l.Symbols())
}

func TestHoldingsReturnsCopy(t *testing.T) {
	l := New()
	l.Add("AAPL", 10)

	holdings := l.Holdings()
	holdings["AAPL"] = 999

	assert.Equal(t, 10.0, l.Shares("AAPL"))
}

func TestFromHoldings(t *testing.T) {
	l := FromHoldings(map[string]float64{"aapl": 10, "MSFT": 5})

	assert.Equal(t, 10.0, l.Shares("AAPL"))
	assert.Equal(t, 5.0, l.Shares("MSFT"))
	assert.Equal(t, 2, l.Len())
}
