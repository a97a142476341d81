package model

import "strings"

// Coin identifies a tracked cryptocurrency.
type Coin string

const (
	// BTC is Bitcoin.
	BTC Coin = "BTC"
	// ETH is Ether.
	ETH Coin = "ETH"
)

// Coins lists the tracked coins in display order.
var Coins = []Coin{BTC, ETH}

// USDTPair returns the Binance USDT trading pair, e.g. "BTCUSDT".
func (c Coin) USDTPair() string {
	return string(c) + "USDT"
}

// USDPair returns the dash-separated USD pair, e.g. "BTC-USD".
func (c Coin) USDPair() string {
	return string(c) + "-USD"
}

// ChartColor returns the line color used for the coin's chart.
func (c Coin) ChartColor() string {
	switch c {
	case BTC:
		return "#f2a900"
	case ETH:
		return "#3c3c3d"
	default:
		return "#1f77b4"
	}
}

// ParseCoin resolves a case-insensitive coin symbol.
func ParseCoin(s string) (Coin, bool) {
	c := Coin(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Coins {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// MarketPrices is the cached market snapshot. Nil fields could not be fetched.
type MarketPrices struct {
	BTC    *float64 `json:"btc"`
	ETH    *float64 `json:"eth"`
	USDRUB *float64 `json:"usd_rub"`
}

// Any reports whether at least one quote is present.
func (m MarketPrices) Any() bool {
	return m.BTC != nil || m.ETH != nil || m.USDRUB != nil
}

// Complete reports whether every quote is present.
func (m MarketPrices) Complete() bool {
	return m.BTC != nil && m.ETH != nil && m.USDRUB != nil
}

// Price returns the USD price of coin.
func (m MarketPrices) Price(c Coin) *float64 {
	switch c {
	case BTC:
		return m.BTC
	case ETH:
		return m.ETH
	default:
		return nil
	}
}
