package coingecko

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/bitcoin", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("market_data"))
		fmt.Fprint(w, `{
			"id": "bitcoin",
			"symbol": "btc",
			"name": "Bitcoin",
			"market_data": {
				"current_price": {"usd": 65000.12},
				"market_cap": {"usd": 1280000000000},
				"price_change_percentage_24h": -2.35,
				"high_24h": {"usd": 67000},
				"low_24h": {"usd": 64500}
			}
		}`)
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL)
	info, err := c.Coin(context.Background(), "bitcoin")
	require.NoError(t, err)

	assert.Equal(t, "Bitcoin", info.Name)
	assert.Equal(t, "btc", info.Symbol)
	assert.InDelta(t, 65000.12, info.MarketData.CurrentPrice.USD, 0.001)
	assert.InDelta(t, -2.35, info.MarketData.PriceChangePercentage24h, 0.001)
	assert.InDelta(t, 67000, info.MarketData.High24h.USD, 0.001)
}

func TestCoinNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"coin not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL)
	_, err := c.Coin(context.Background(), "dogecorn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dogecorn")
}

func TestCoinRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL)
	_, err := c.Coin(context.Background(), "bitcoin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}

func TestCoinHonorsContext(t *testing.T) {
	c := NewWithBaseURL("http://127.0.0.1:0")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Coin(ctx, "bitcoin")
	require.Error(t, err)
}
