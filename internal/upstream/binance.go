package upstream

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/giga-bot/internal/domain/model"
	"github.com/guttosm/giga-bot/internal/timeseries"
)

var cryptoHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (compatible; CryptoPrices/1.0)",
	"Accept":     "application/json",
}

// Quotes holds USD spot prices for the tracked coins.
type Quotes struct {
	BTC float64
	ETH float64
}

// Binance reads prices, 24h statistics and klines from the Binance REST API.
type Binance struct {
	client  *Client
	baseURL string
}

// NewBinance creates a Binance provider rooted at baseURL.
func NewBinance(client *Client, baseURL string) *Binance {
	return &Binance{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// SpotPrice returns the last price of the coin's USDT pair.
func (b *Binance) SpotPrice(ctx context.Context, coin model.Coin) (float64, error) {
	var resp struct {
		Price any `json:"price"`
	}
	err := b.client.GetJSON(ctx, Request{
		Provider: "binance_price",
		URL:      b.baseURL + "/api/v3/ticker/price",
		Query:    url.Values{"symbol": {coin.USDTPair()}},
		Headers:  cryptoHeaders,
	}, &resp)
	if err != nil {
		return 0, err
	}
	price, ok := parseFloat(resp.Price)
	if !ok {
		return 0, fmt.Errorf("binance_price: %w: price %v", ErrMalformed, resp.Price)
	}
	return price, nil
}

// SpotPrices returns BTC and ETH prices; it fails unless both succeed.
func (b *Binance) SpotPrices(ctx context.Context) (Quotes, error) {
	btc, err := b.SpotPrice(ctx, model.BTC)
	if err != nil {
		return Quotes{}, err
	}
	eth, err := b.SpotPrice(ctx, model.ETH)
	if err != nil {
		return Quotes{}, err
	}
	return Quotes{BTC: btc, ETH: eth}, nil
}

// Change24h returns the 24h price change percentage of the coin's USDT pair.
func (b *Binance) Change24h(ctx context.Context, coin model.Coin) (float64, error) {
	var resp struct {
		PriceChangePercent any `json:"priceChangePercent"`
	}
	err := b.client.GetJSON(ctx, Request{
		Provider: "binance_24hr",
		URL:      b.baseURL + "/api/v3/ticker/24hr",
		Query:    url.Values{"symbol": {coin.USDTPair()}},
		Headers:  cryptoHeaders,
	}, &resp)
	if err != nil {
		return 0, err
	}
	pct, ok := parseFloat(resp.PriceChangePercent)
	if !ok {
		return 0, fmt.Errorf("binance_24hr: %w: priceChangePercent %v", ErrMalformed, resp.PriceChangePercent)
	}
	return pct, nil
}

// Klines returns the close-price series of the coin's USDT pair, one point per candle keyed by
// the candle's close time. Rows that cannot be parsed are skipped.
func (b *Binance) Klines(ctx context.Context, coin model.Coin, interval string, limit int) (timeseries.Series, error) {
	var rows [][]any
	err := b.client.GetJSON(ctx, Request{
		Provider: "binance_klines",
		URL:      b.baseURL + "/api/v3/klines",
		Query: url.Values{
			"symbol":   {coin.USDTPair()},
			"interval": {interval},
			"limit":    {strconv.Itoa(limit)},
		},
		Headers: cryptoHeaders,
		Timeout: 20 * time.Second,
	}, &rows)
	if err != nil {
		return nil, err
	}

	series := make(timeseries.Series, 0, len(rows))
	for _, row := range rows {
		if len(row) < 7 {
			continue
		}
		closeTime, ok := parseInt(row[6])
		if !ok {
			continue
		}
		closePrice, ok := parseFloat(row[4])
		if !ok {
			continue
		}
		series = append(series, timeseries.Point{TimestampMs: closeTime, Value: closePrice})
	}
	return series, nil
}

// Coinbase reads spot prices from the Coinbase public API.
type Coinbase struct {
	client  *Client
	baseURL string
}

// NewCoinbase creates a Coinbase provider rooted at baseURL.
func NewCoinbase(client *Client, baseURL string) *Coinbase {
	return &Coinbase{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// SpotPrice returns the USD spot price of coin.
func (c *Coinbase) SpotPrice(ctx context.Context, coin model.Coin) (float64, error) {
	var resp struct {
		Data struct {
			Amount any `json:"amount"`
		} `json:"data"`
	}
	err := c.client.GetJSON(ctx, Request{
		Provider: "coinbase_spot",
		URL:      c.baseURL + "/v2/prices/" + coin.USDPair() + "/spot",
		Headers:  cryptoHeaders,
	}, &resp)
	if err != nil {
		return 0, err
	}
	amount, ok := parseFloat(resp.Data.Amount)
	if !ok {
		return 0, fmt.Errorf("coinbase_spot: %w: amount %v", ErrMalformed, resp.Data.Amount)
	}
	return amount, nil
}

// SpotPrices returns BTC and ETH prices; it fails unless both succeed.
func (c *Coinbase) SpotPrices(ctx context.Context) (Quotes, error) {
	btc, err := c.SpotPrice(ctx, model.BTC)
	if err != nil {
		return Quotes{}, err
	}
	eth, err := c.SpotPrice(ctx, model.ETH)
	if err != nil {
		return Quotes{}, err
	}
	return Quotes{BTC: btc, ETH: eth}, nil
}
