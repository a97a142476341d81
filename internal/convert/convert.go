// Package convert converts amounts between dollars, rubles and the tracked coins.
package convert

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/guttosm/giga-bot/internal/domain/model"
	"github.com/shopspring/decimal"
)

// Unit is a convertible currency.
type Unit string

const (
	USD Unit = "usd"
	RUB Unit = "rub"
	BTC Unit = "btc"
	ETH Unit = "eth"
)

var (
	// ErrUsage means the text is not a well-formed convert command.
	ErrUsage = errors.New("convert: usage")
	// ErrUnknownUnit means a unit is unsupported, or source and target are the same.
	ErrUnknownUnit = errors.New("convert: unsupported unit")
	// ErrMissingRate means a quote needed for the conversion is not available.
	ErrMissingRate = errors.New("convert: missing rate")
)

var aliases = map[string]Unit{
	"usd":    USD,
	"$":      USD,
	"rub":    RUB,
	"₽":      RUB,
	"rubles": RUB,
	"rur":    RUB,
	"btc":    BTC,
	"ƀ":      BTC,
	"eth":    ETH,
}

var commandPattern = regexp.MustCompile(`(?i)^[!/](?:convert|conv)(?:@\w+)?\s+([0-9]+(?:[.,][0-9]+)?)\s+([a-z₽$Ƀƀ]+)\s+([a-z₽$Ƀƀ]+)`)

// ParseUnit resolves a unit name or symbol, case-insensitively.
func ParseUnit(s string) (Unit, bool) {
	u, ok := aliases[strings.ToLower(strings.TrimSpace(s))]
	return u, ok
}

// Request is a parsed convert command.
type Request struct {
	Amount decimal.Decimal
	From   Unit
	To     Unit
}

// ParseCommand parses "/convert <amount> <from> <to>" and its /conv and ! forms.
// A comma is accepted as the decimal separator.
func ParseCommand(text string) (Request, error) {
	m := commandPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return Request{}, ErrUsage
	}

	amount, err := decimal.NewFromString(strings.Replace(m[1], ",", ".", 1))
	if err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	from, ok := ParseUnit(m[2])
	if !ok {
		return Request{}, fmt.Errorf("%w: %q", ErrUnknownUnit, m[2])
	}
	to, ok := ParseUnit(m[3])
	if !ok {
		return Request{}, fmt.Errorf("%w: %q", ErrUnknownUnit, m[3])
	}
	if from == to {
		return Request{}, fmt.Errorf("%w: %s to itself", ErrUnknownUnit, from)
	}

	return Request{Amount: amount, From: from, To: to}, nil
}

// Convert converts amount from one unit to another through USD.
func Convert(amount decimal.Decimal, from, to Unit, prices model.MarketPrices) (decimal.Decimal, error) {
	fromRate, err := rate(from, prices)
	if err != nil {
		return decimal.Zero, err
	}
	toRate, err := rate(to, prices)
	if err != nil {
		return decimal.Zero, err
	}

	usd := amount
	switch from {
	case RUB:
		usd = amount.Div(fromRate)
	case BTC, ETH:
		usd = amount.Mul(fromRate)
	}

	switch to {
	case RUB:
		return usd.Mul(toRate), nil
	case BTC, ETH:
		return usd.Div(toRate), nil
	default:
		return usd, nil
	}
}

// rate returns the coin's USD price, the rubles per dollar for RUB, or one for USD.
func rate(u Unit, prices model.MarketPrices) (decimal.Decimal, error) {
	var q *float64
	switch u {
	case USD:
		return decimal.NewFromInt(1), nil
	case RUB:
		q = prices.USDRUB
	case BTC:
		q = prices.BTC
	case ETH:
		q = prices.ETH
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownUnit, u)
	}
	if q == nil || *q <= 0 {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrMissingRate, u)
	}
	return decimal.NewFromFloat(*q), nil
}
