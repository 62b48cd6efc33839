package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// SnapshotRecord is a persisted valuation summary
type SnapshotRecord struct {
	ID            int64           `json:"id"`
	RecordedAt    string          `json:"recorded_at"` // RFC3339
	TotalValue    float64         `json:"total_value"`
	PositionCount int             `json:"position_count"`
	Positions     json.RawMessage `json:"positions"`
}

// SnapshotRepository handles portfolio snapshot persistence
type SnapshotRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *sql.DB, log zerolog.Logger) *SnapshotRepository {
	return &SnapshotRepository{
		db:  db,
		log: log.With().Str("repo", "snapshots").Logger(),
	}
}

// Save records a valuation summary
func (r *SnapshotRepository) Save(recordedAt time.Time, totalValue float64, positionCount int, positions interface{}) error {
	positionsJSON, err := json.Marshal(positions)
	if err != nil {
		return fmt.Errorf("failed to marshal positions: %w", err)
	}

	query := `
		INSERT INTO portfolio_snapshots (recorded_at, total_value, position_count, positions_json)
		VALUES (?, ?, ?, ?)
	`

	if _, err := r.db.Exec(query, recordedAt.Format(time.RFC3339), totalValue, positionCount, string(positionsJSON)); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

// GetHistory returns the most recent snapshots, newest first
func (r *SnapshotRepository) GetHistory(limit int) ([]SnapshotRecord, error) {
	query := `
		SELECT id, recorded_at, total_value, position_count, positions_json
		FROM portfolio_snapshots
		ORDER BY recorded_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot history: %w", err)
	}
	defer rows.Close()

	var records []SnapshotRecord
	for rows.Next() {
		var rec SnapshotRecord
		var positionsJSON string

		if err := rows.Scan(&rec.ID, &rec.RecordedAt, &rec.TotalValue, &rec.PositionCount, &positionsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}

		rec.Positions = json.RawMessage(positionsJSON)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return records, nil
}
