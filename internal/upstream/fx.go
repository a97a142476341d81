package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// ExchangeRateHost reads FX rates from exchangerate.host.
type ExchangeRateHost struct {
	client  *Client
	baseURL string
}

// NewExchangeRateHost creates an exchangerate.host provider rooted at baseURL.
func NewExchangeRateHost(client *Client, baseURL string) *ExchangeRateHost {
	return &ExchangeRateHost{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// USDRUB returns how many rubles one US dollar buys.
func (p *ExchangeRateHost) USDRUB(ctx context.Context) (float64, error) {
	var resp ratesResponse
	err := p.client.GetJSON(ctx, Request{
		Provider: "exchangerate_host",
		URL:      p.baseURL + "/latest",
		Query:    url.Values{"base": {"USD"}, "symbols": {"RUB"}},
		Headers:  cryptoHeaders,
	}, &resp)
	if err != nil {
		return 0, err
	}
	return resp.rate("exchangerate_host", "RUB")
}

// OpenER reads FX rates from open.er-api.com.
type OpenER struct {
	client  *Client
	baseURL string
}

// NewOpenER creates an open.er-api.com provider rooted at baseURL.
func NewOpenER(client *Client, baseURL string) *OpenER {
	return &OpenER{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// USDRUB returns how many rubles one US dollar buys.
func (p *OpenER) USDRUB(ctx context.Context) (float64, error) {
	var resp ratesResponse
	err := p.client.GetJSON(ctx, Request{
		Provider: "open_er",
		URL:      p.baseURL + "/v6/latest/USD",
		Headers:  cryptoHeaders,
	}, &resp)
	if err != nil {
		return 0, err
	}
	return resp.rate("open_er", "RUB")
}

type ratesResponse struct {
	Rates map[string]any `json:"rates"`
}

// rate only accepts JSON numbers; a quoted rate is treated as malformed.
func (r ratesResponse) rate(provider, symbol string) (float64, error) {
	n, ok := r.Rates[symbol].(json.Number)
	if !ok {
		return 0, fmt.Errorf("%s: %w: no numeric %s rate", provider, ErrMalformed, symbol)
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("%s: %w: %v", provider, ErrMalformed, err)
	}
	return f, nil
}
