package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avegas/cashfolio/internal/modules/valuation"
)

func sampleSnapshot() valuation.Snapshot {
	updated := "2026-08-29T12:00:00Z"
	return valuation.Snapshot{
		TotalValue: 3000,
		Positions: map[string]valuation.Position{
			"AAPL": {Shares: 10, Price: 150, Value: 1500, Weight: 50},
			"MSFT": {Shares: 5, Price: 300, Value: 1500, Weight: 50},
			"PENN": {Shares: 2, Price: 0, Value: 0, Weight: 0, Degraded: true},
		},
		LastUpdated: &updated,
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleSnapshot()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, []string{"Ticker", "Shares", "Price", "Value", "Weight %"}, records[0])

	// Sorted by value descending, symbol breaks the tie
	assert.Equal(t, "AAPL", records[1][0])
	assert.Equal(t, "MSFT", records[2][0])
	assert.Equal(t, "PENN", records[3][0])

	assert.Equal(t, []string{"AAPL", "10", "150", "1500", "50"}, records[1])
	assert.Equal(t, []string{"PENN", "2", "0", "0", "0"}, records[3])
}

func TestWriteCSVEmptySnapshot(t *testing.T) {
	var buf bytes.Buffer
	snapshot := valuation.Snapshot{Positions: map[string]valuation.Position{}}

	require.NoError(t, WriteCSV(&buf, snapshot))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1) // header only
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleSnapshot()))

	var decoded valuation.Snapshot
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, 3000.0, decoded.TotalValue)
	assert.Len(t, decoded.Positions, 3)
	assert.True(t, decoded.Positions["PENN"].Degraded)
	require.NotNil(t, decoded.LastUpdated)
	assert.Equal(t, "2026-08-29T12:00:00Z", *decoded.LastUpdated)
}
