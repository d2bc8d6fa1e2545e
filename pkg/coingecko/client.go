package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"pricehistory/internal/domain"
	"pricehistory/internal/logger"
	"sort"
	"strconv"
	"strings"
	"time"
)

const DefaultBaseUrl = "https://api.coingecko.com/api/v3"

// Source is the provenance tag written alongside every persisted point
// that came from this provider.
const Source = "coingecko"

const userAgent = "pricehistory/1.0 (+https://cool-toolbox.com)"

const maxAttempts = 3

type Client interface {
	// FetchRange returns daily close prices for the coin in the given
	// quote currency, one point per calendar day, ascending. A single-day
	// range is legal and yields zero or one points.
	FetchRange(ctx context.Context, coinID string, quoteCode string, r domain.DateRange) ([]domain.PricePoint, error)
	Search(ctx context.Context, query string) (*SearchResponse, error)
	CoinList(ctx context.Context) ([]CoinListEntry, error)
}

type clientHandler struct {
	HttpClient *http.Client
	ApiKey     string
	BaseUrl    string

	// sleep is swapped out in tests
	sleep func(time.Duration)
}

func NewClient(httpClient *http.Client, apiKey string) Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &clientHandler{
		HttpClient: httpClient,
		ApiKey:     apiKey,
		BaseUrl:    DefaultBaseUrl,
		sleep:      time.Sleep,
	}
}

type SearchCoin struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	MarketCapRank *int   `json:"market_cap_rank"`
}

type SearchResponse struct {
	Coins []SearchCoin `json:"coins"`
}

type CoinListEntry struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

type marketChartResponse struct {
	// Prices is a list of [timestamp_ms, price] pairs.
	Prices [][]float64 `json:"prices"`
}

func (c *clientHandler) FetchRange(ctx context.Context, coinID string, quoteCode string, r domain.DateRange) ([]domain.PricePoint, error) {
	endpoint := fmt.Sprintf("/coins/%s/market_chart/range", url.PathEscape(coinID))
	params := url.Values{}
	params.Set("vs_currency", strings.ToLower(quoteCode))
	params.Set("from", strconv.FormatInt(r.Start.Unix(), 10))
	params.Set("to", strconv.FormatInt(r.End.Unix(), 10))

	body, err := c.do(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}

	chart := marketChartResponse{}
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, &domain.UpstreamError{Endpoint: endpoint, Err: fmt.Errorf("failed to parse market chart: %w", err)}
	}

	// dedupe raw points by calendar day; the later point in the
	// response wins
	byDay := map[time.Time]float64{}
	for _, pair := range chart.Prices {
		if len(pair) < 2 {
			continue
		}
		day := domain.Day(time.UnixMilli(int64(pair[0])))
		byDay[day] = pair[1]
	}

	out := []domain.PricePoint{}
	for day, price := range byDay {
		out = append(out, domain.PricePoint{Date: day, Price: price})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})

	return out, nil
}

func (c *clientHandler) Search(ctx context.Context, query string) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("query", query)

	body, err := c.do(ctx, "/search", params)
	if err != nil {
		return nil, err
	}

	out := SearchResponse{}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &domain.UpstreamError{Endpoint: "/search", Err: fmt.Errorf("failed to parse search response: %w", err)}
	}

	return &out, nil
}

func (c *clientHandler) CoinList(ctx context.Context) ([]CoinListEntry, error) {
	body, err := c.do(ctx, "/coins/list", nil)
	if err != nil {
		return nil, err
	}

	out := []CoinListEntry{}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &domain.UpstreamError{Endpoint: "/coins/list", Err: fmt.Errorf("failed to parse coin list: %w", err)}
	}

	return out, nil
}

// do issues a GET against the provider with up to 3 attempts. 429s honor
// the Retry-After header when it parses as a non-negative number and
// still consume an attempt; 401/403/404 fail immediately; anything else
// backs off a fixed 0.8s per attempt number and retries.
func (c *clientHandler) do(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	fullUrl := c.BaseUrl + endpoint
	if len(params) > 0 {
		fullUrl += "?" + params.Encode()
	}

	var lastErr error
	lastStatus := 0

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullUrl, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build request for %s: %w", endpoint, err)
		}
		req.Header.Set("User-Agent", userAgent)
		if c.ApiKey != "" {
			req.Header.Set("x-cg-pro-api-key", c.ApiKey)
		}

		response, err := c.HttpClient.Do(req)
		if err != nil {
			lastErr = err
			lastStatus = 0
			if sleepErr := c.backoff(ctx, fixedBackoff(attempt)); sleepErr != nil {
				return nil, sleepErr
			}
			continue
		}

		body, readErr := io.ReadAll(response.Body)
		response.Body.Close()

		switch {
		case response.StatusCode == http.StatusOK:
			if readErr != nil {
				lastErr = fmt.Errorf("failed to read body: %w", readErr)
				lastStatus = response.StatusCode
				if sleepErr := c.backoff(ctx, fixedBackoff(attempt)); sleepErr != nil {
					return nil, sleepErr
				}
				continue
			}
			return body, nil

		case response.StatusCode == http.StatusUnauthorized || response.StatusCode == http.StatusForbidden:
			return nil, &domain.UpstreamError{
				Endpoint:   endpoint,
				StatusCode: response.StatusCode,
				Err:        fmt.Errorf("unauthorized (API key may be required)"),
			}

		case response.StatusCode == http.StatusNotFound:
			return nil, &domain.UpstreamError{
				Endpoint:   endpoint,
				StatusCode: response.StatusCode,
				Err:        fmt.Errorf("not found"),
			}

		case response.StatusCode == http.StatusTooManyRequests:
			lastErr = fmt.Errorf("rate limited")
			lastStatus = response.StatusCode
			delay := rateLimitBackoff(attempt)
			if v, err := strconv.ParseFloat(response.Header.Get("Retry-After"), 64); err == nil && v >= 0 {
				delay = time.Duration(v * float64(time.Second))
			}
			logger.Warn("coingecko rate limited on %s, attempt %d/%d, waiting %s", endpoint, attempt, maxAttempts, delay)
			if sleepErr := c.backoff(ctx, delay); sleepErr != nil {
				return nil, sleepErr
			}

		default:
			lastErr = fmt.Errorf("status %d: %s", response.StatusCode, truncate(body, 256))
			lastStatus = response.StatusCode
			if sleepErr := c.backoff(ctx, fixedBackoff(attempt)); sleepErr != nil {
				return nil, sleepErr
			}
		}
	}

	return nil, &domain.UpstreamError{
		Endpoint:   endpoint,
		StatusCode: lastStatus,
		Err:        fmt.Errorf("all %d attempts failed, last error: %w", maxAttempts, lastErr),
	}
}

func (c *clientHandler) backoff(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.sleep(d)
	return nil
}

func fixedBackoff(attempt int) time.Duration {
	return time.Duration(0.8 * float64(attempt) * float64(time.Second))
}

func rateLimitBackoff(attempt int) time.Duration {
	return time.Duration(1.5 * float64(attempt) * float64(time.Second))
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
