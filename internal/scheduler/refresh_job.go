package scheduler

import (
	"github.com/rs/zerolog"

	"github.com/avegas/cashfolio/internal/marketdata"
)

// RefreshJob keeps the daily-bar cache warm for a configured watch set
// of symbols. One symbol's failure does not stop the pass.
type RefreshJob struct {
	symbols  []string
	provider marketdata.Provider
	log      zerolog.Logger
}

// NewRefreshJob creates a new cache refresh job
func NewRefreshJob(symbols []string, provider marketdata.Provider, log zerolog.Logger) *RefreshJob {
	return &RefreshJob{
		symbols:  symbols,
		provider: provider,
		log:      log.With().Str("job", "quote_refresh").Logger(),
	}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "quote_refresh"
}

// Run refreshes recent history for every watched symbol. Fetching
// through the caching provider writes the bars through to disk.
func (j *RefreshJob) Run() error {
	for _, symbol := range j.symbols {
		if _, err := j.provider.History(symbol, "3mo"); err != nil {
			j.log.Warn().Err(err).Str("symbol", symbol).Msg("Refresh failed")
			continue
		}
		j.log.Debug().Str("symbol", symbol).Msg("Refreshed history")
	}

	return nil
}
