package yahoo

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/avegas/cashfolio/internal/marketdata"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// Client is a Yahoo Finance API client implementing marketdata.Provider
type Client struct {
	client     *http.Client
	log        zerolog.Logger
	maxRetries int
}

// NewClient creates a new Yahoo Finance client
func NewClient(log zerolog.Logger) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log:        log.With().Str("client", "yahoo").Logger(),
		maxRetries: 3,
	}
}

// yahooQuoteResponse represents the response from the Yahoo Finance quote API
type yahooQuoteResponse struct {
	QuoteResponse struct {
		Result []map[string]interface{} `json:"result"`
		Error  interface{}              `json:"error"`
	} `json:"quoteResponse"`
}

// LatestPrice gets the current price for a symbol, retrying with
// exponential backoff on transient failures.
func (c *Client) LatestPrice(symbol string) (float64, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		info, err := c.getQuoteInfo(symbol)
		if err != nil {
			lastErr = err
			if attempt < c.maxRetries-1 {
				waitTime := time.Duration(1<<uint(attempt)) * time.Second
				c.log.Warn().Err(err).
					Str("symbol", symbol).
					Int("attempt", attempt+1).
					Dur("wait", waitTime).
					Msg("Failed to get price, retrying")
				time.Sleep(waitTime)
				continue
			}
			break
		}

		// Try currentPrice first, then regularMarketPrice
		if price := getFloat64(info, "currentPrice"); price != nil && *price > 0 {
			return *price, nil
		}

		if price := getFloat64(info, "regularMarketPrice"); price != nil && *price > 0 {
			return *price, nil
		}

		if attempt < c.maxRetries-1 {
			waitTime := time.Duration(1<<uint(attempt)) * time.Second
			c.log.Warn().
				Str("symbol", symbol).
				Int("attempt", attempt+1).
				Dur("wait", waitTime).
				Msg("Price was invalid, retrying")
			time.Sleep(waitTime)
		}
	}

	if lastErr != nil {
		return 0, fmt.Errorf("failed after %d attempts: %w", c.maxRetries, lastErr)
	}

	return 0, fmt.Errorf("failed to get valid price for %s after %d attempts", symbol, c.maxRetries)
}

// Quote fetches a full market quote for a symbol
func (c *Client) Quote(symbol string) (*marketdata.Quote, error) {
	info, err := c.getQuoteInfo(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote info: %w", err)
	}

	upper := strings.ToUpper(symbol)

	name := getString(info, "longName", "")
	if name == "" {
		name = getString(info, "shortName", upper)
	}

	price := getFloat64OrZero(info, "regularMarketPrice")
	prevClose := getFloat64OrZero(info, "regularMarketPreviousClose")

	change := getFloat64OrZero(info, "regularMarketChange")
	changePct := getFloat64OrZero(info, "regularMarketChangePercent")
	if change == 0 && prevClose != 0 {
		change = price - prevClose
		changePct = change / prevClose * 100
	}

	return &marketdata.Quote{
		Symbol:        upper,
		Name:          name,
		Price:         price,
		PreviousClose: prevClose,
		Change:        change,
		ChangePercent: changePct,
		Volume:        getInt64OrZero(info, "regularMarketVolume"),
		MarketCap:     getInt64OrZero(info, "marketCap"),
		Currency:      getString(info, "currency", "USD"),
	}, nil
}

// Info fetches company profile data for a symbol
func (c *Client) Info(symbol string) (*marketdata.CompanyInfo, error) {
	info, err := c.getQuoteInfo(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote info: %w", err)
	}

	upper := strings.ToUpper(symbol)

	name := getString(info, "longName", "")
	if name == "" {
		name = getString(info, "shortName", upper)
	}

	return &marketdata.CompanyInfo{
		Symbol:      upper,
		Name:        name,
		Sector:      getString(info, "sector", ""),
		Industry:    getString(info, "industry", ""),
		Description: getString(info, "longBusinessSummary", ""),
		Website:     getString(info, "website", ""),
		Employees:   getIntOrZero(info, "fullTimeEmployees"),
	}, nil
}

// Analyst fetches analyst recommendations and price targets
func (c *Client) Analyst(symbol string) (*marketdata.AnalystData, error) {
	info, err := c.getQuoteInfo(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote info: %w", err)
	}

	currentPrice := getFloat64OrZero(info, "currentPrice")
	if currentPrice == 0 {
		currentPrice = getFloat64OrZero(info, "regularMarketPrice")
	}

	return &marketdata.AnalystData{
		Symbol:             strings.ToUpper(symbol),
		Recommendation:     getString(info, "recommendationKey", "hold"),
		RecommendationMean: getFloat64OrZero(info, "recommendationMean"),
		TargetPrice:        getFloat64OrZero(info, "targetMeanPrice"),
		CurrentPrice:       currentPrice,
		NumAnalysts:        getIntOrZero(info, "numberOfAnalystOpinions"),
	}, nil
}

// getQuoteInfo fetches quote information from the Yahoo Finance quote API
func (c *Client) getQuoteInfo(symbol string) (map[string]interface{}, error) {
	baseURL := "https://query1.finance.yahoo.com/v7/finance/quote"

	params := url.Values{}
	params.Add("symbols", strings.ToUpper(symbol))
	params.Add("fields", "symbol,regularMarketPrice,currentPrice,regularMarketPreviousClose,"+
		"regularMarketChange,regularMarketChangePercent,regularMarketVolume,marketCap,currency,"+
		"sector,industry,longBusinessSummary,website,fullTimeEmployees,"+
		"recommendationKey,recommendationMean,targetMeanPrice,numberOfAnalystOpinions,"+
		"quoteType,longName,shortName")

	reqURL := baseURL + "?" + params.Encode()

	req, err := http.NewRequest("GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers to mimic browser
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Yahoo Finance API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var result yahooQuoteResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if result.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("Yahoo Finance API error: %v", result.QuoteResponse.Error)
	}

	if len(result.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("no quote data returned for symbol %s", symbol)
	}

	return result.QuoteResponse.Result[0], nil
}

// History fetches historical daily OHLCV data from the Yahoo Finance
// chart API. Supported periods: 1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y,
// 10y, ytd, max.
func (c *Client) History(symbol string, period string) ([]marketdata.PricePoint, error) {
	baseURL := "https://query1.finance.yahoo.com/v8/finance/chart/" + url.QueryEscape(strings.ToUpper(symbol))

	params := url.Values{}
	params.Add("interval", "1d")
	params.Add("range", period)

	reqURL := baseURL + "?" + params.Encode()

	req, err := http.NewRequest("GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch historical data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Yahoo Finance API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var result chartResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if result.Chart.Error != nil {
		return nil, fmt.Errorf("Yahoo Finance API error: %v", result.Chart.Error)
	}

	if len(result.Chart.Result) == 0 {
		c.log.Warn().Str("symbol", symbol).Msg("No historical data returned")
		return nil, marketdata.ErrNoData
	}

	chartData := result.Chart.Result[0]
	timestamps := chartData.Timestamp
	if len(chartData.Indicators.Quote) == 0 {
		c.log.Warn().Str("symbol", symbol).Msg("No quote data in response")
		return nil, marketdata.ErrNoData
	}

	quote := chartData.Indicators.Quote[0]

	var prices []marketdata.PricePoint
	for i := range timestamps {
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) || i >= len(quote.Close) {
			continue
		}

		// Yahoo sometimes returns null rows
		if quote.Open[i] == 0 && quote.High[i] == 0 && quote.Low[i] == 0 && quote.Close[i] == 0 {
			continue
		}

		volume := int64(0)
		if i < len(quote.Volume) {
			volume = quote.Volume[i]
		}

		prices = append(prices, marketdata.PricePoint{
			Date:   time.Unix(timestamps[i], 0).UTC(),
			Open:   quote.Open[i],
			High:   quote.High[i],
			Low:    quote.Low[i],
			Close:  quote.Close[i],
			Volume: volume,
		})
	}

	if len(prices) == 0 {
		return nil, marketdata.ErrNoData
	}

	c.log.Info().
		Str("symbol", symbol).
		Str("period", period).
		Int("count", len(prices)).
		Msg("Fetched historical prices")

	return prices, nil
}

// Helper functions to safely extract values from map

func getFloat64(m map[string]interface{}, key string) *float64 {
	if val, ok := m[key]; ok && val != nil {
		switch v := val.(type) {
		case float64:
			return &v
		case int:
			f := float64(v)
			return &f
		case int64:
			f := float64(v)
			return &f
		}
	}
	return nil
}

func getFloat64OrZero(m map[string]interface{}, key string) float64 {
	if val := getFloat64(m, key); val != nil {
		return *val
	}
	return 0
}

func getInt64OrZero(m map[string]interface{}, key string) int64 {
	if val, ok := m[key]; ok && val != nil {
		switch v := val.(type) {
		case float64:
			return int64(v)
		case int:
			return int64(v)
		case int64:
			return v
		}
	}
	return 0
}

func getIntOrZero(m map[string]interface{}, key string) int {
	return int(getInt64OrZero(m, key))
}

func getString(m map[string]interface{}, key string, defaultVal string) string {
	if val, ok := m[key]; ok && val != nil {
		if s, ok := val.(string); ok {
			return s
		}
	}
	return defaultVal
}
