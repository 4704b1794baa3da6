// Package coingecko is a small client for the public CoinGecko API, used by
// the coin price command.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public CoinGecko API root.
const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// CoinInfo is the slice of /coins/{id} data the bot displays.
type CoinInfo struct {
	ID         string `json:"id"`
	Symbol     string `json:"symbol"`
	Name       string `json:"name"`
	MarketData struct {
		CurrentPrice struct {
			USD float64 `json:"usd"`
		} `json:"current_price"`
		MarketCap struct {
			USD float64 `json:"usd"`
		} `json:"market_cap"`
		PriceChange24h           float64 `json:"price_change_24h_in_currency,omitempty"`
		PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
		High24h                  struct {
			USD float64 `json:"usd"`
		} `json:"high_24h"`
		Low24h struct {
			USD float64 `json:"usd"`
		} `json:"low_24h"`
	} `json:"market_data"`
}

// Client calls the CoinGecko API. The free tier throttles aggressively, so
// requests go through a local rate limiter instead of bouncing off 429s.
type Client struct {
	http    *http.Client
	base    string
	limiter *rate.Limiter
}

// New creates a client against the public API.
func New() *Client {
	return &Client{
		http: &http.Client{Timeout: 15 * time.Second},
		base: DefaultBaseURL,
		// ~10 calls/minute keeps the free tier happy.
		limiter: rate.NewLimiter(rate.Every(6*time.Second), 2),
	}
}

// NewWithBaseURL creates a client against a custom API root, used in tests.
func NewWithBaseURL(base string) *Client {
	c := New()
	c.base = base
	return c
}

// Coin fetches current market data for a CoinGecko coin ID (e.g. "bitcoin").
func (c *Client) Coin(ctx context.Context, id string) (*CoinInfo, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf(
		"%s/coins/%s?localization=false&tickers=false&market_data=true&community_data=false&developer_data=false",
		c.base, url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build coingecko request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "coingecko request failed")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, errors.Errorf("unknown coin %q", id)
	case http.StatusTooManyRequests:
		return nil, errors.New("coingecko rate limit hit, try again in a minute")
	default:
		return nil, errors.Errorf("coingecko returned %s", resp.Status)
	}

	var info CoinInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, errors.Wrap(err, "failed to decode coingecko response")
	}
	return &info, nil
}
