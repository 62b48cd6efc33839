package marketdata

import (
	"errors"

	"github.com/rs/zerolog"
)

// CachedProvider wraps an upstream Provider with the daily-bar cache.
// Fresh history is fetched upstream and written through; when the
// upstream is unreachable the cache serves what it has.
type CachedProvider struct {
	upstream Provider
	cache    *HistoryCache
	log      zerolog.Logger
}

// NewCachedProvider creates a caching provider around upstream
func NewCachedProvider(upstream Provider, cache *HistoryCache, log zerolog.Logger) *CachedProvider {
	return &CachedProvider{
		upstream: upstream,
		cache:    cache,
		log:      log.With().Str("component", "cached_provider").Logger(),
	}
}

// LatestPrice delegates to the upstream provider
func (p *CachedProvider) LatestPrice(symbol string) (float64, error) {
	return p.upstream.LatestPrice(symbol)
}

// History fetches bars upstream, writes them through to the cache, and
// falls back to cached bars when the upstream call fails.
func (p *CachedProvider) History(symbol string, period string) ([]PricePoint, error) {
	bars, err := p.upstream.History(symbol, period)
	if err == nil {
		if storeErr := p.cache.Store(symbol, bars); storeErr != nil {
			p.log.Warn().Err(storeErr).Str("symbol", symbol).Msg("Failed to cache history")
		}
		return bars, nil
	}

	if errors.Is(err, ErrNoData) {
		return nil, err
	}

	p.log.Warn().Err(err).Str("symbol", symbol).Msg("Upstream history failed, trying cache")

	cached, cacheErr := p.cache.Load(symbol, periodBarLimit(period))
	if cacheErr != nil {
		return nil, err
	}

	return cached, nil
}

// Quote delegates to the upstream provider
func (p *CachedProvider) Quote(symbol string) (*Quote, error) {
	return p.upstream.Quote(symbol)
}

// Info delegates to the upstream provider
func (p *CachedProvider) Info(symbol string) (*CompanyInfo, error) {
	return p.upstream.Info(symbol)
}

// Analyst delegates to the upstream provider
func (p *CachedProvider) Analyst(symbol string) (*AnalystData, error) {
	return p.upstream.Analyst(symbol)
}

// periodBarLimit maps a chart range to a rough daily-bar count for
// cache reads
func periodBarLimit(period string) int {
	switch period {
	case "1d":
		return 1
	case "5d":
		return 5
	case "1mo":
		return 23
	case "3mo":
		return 66
	case "6mo":
		return 130
	case "1y", "ytd":
		return 260
	case "2y":
		return 520
	case "5y":
		return 1300
	case "10y":
		return 2600
	default:
		return 5000
	}
}
