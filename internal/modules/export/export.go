package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/avegas/cashfolio/internal/modules/valuation"
)

// WriteCSV writes a valuation snapshot as a CSV summary, one row per
// position sorted by value descending.
func WriteCSV(w io.Writer, snapshot valuation.Snapshot) error {
	type row struct {
		symbol string
		pos    valuation.Position
	}

	rows := make([]row, 0, len(snapshot.Positions))
	for symbol, pos := range snapshot.Positions {
		rows = append(rows, row{symbol: symbol, pos: pos})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].pos.Value != rows[j].pos.Value {
			return rows[i].pos.Value > rows[j].pos.Value
		}
		return rows[i].symbol < rows[j].symbol
	})

	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Ticker", "Shares", "Price", "Value", "Weight %"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range rows {
		record := []string{
			r.symbol,
			formatFloat(r.pos.Shares),
			formatFloat(r.pos.Price),
			formatFloat(r.pos.Value),
			formatFloat(r.pos.Weight),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", r.symbol, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the raw valuation snapshot as indented JSON
func WriteJSON(w io.Writer, snapshot valuation.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

func formatFloat(f float64) string {
	return fmt.Sprintf("%g", f)
}
