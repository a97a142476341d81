package bot

import (
	"math"
	"strconv"
	"strings"

	"github.com/guttosm/giga-bot/internal/timeseries"
	"github.com/shopspring/decimal"
)

// placeholder is shown for any value that could not be obtained.
const placeholder = "—"

// groupThousands inserts a space every three digits of the integer part of a fixed-point number.
func groupThousands(fixed string) string {
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	intPart, frac, hasFrac := strings.Cut(fixed, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

func fixed(v float64, decimals int) string {
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	if strings.Trim(s, "-0.") == "" {
		s = strings.TrimPrefix(s, "-")
	}
	return groupThousands(s)
}

func formatInt(n *int64) string {
	if n == nil {
		return placeholder
	}
	return groupThousands(strconv.FormatInt(*n, 10))
}

func formatUSD(v *float64) string {
	if v == nil {
		return placeholder
	}
	return fixed(*v, 0) + " $"
}

func formatRUB(v *float64) string {
	if v == nil {
		return placeholder
	}
	return fixed(*v, 2) + " ₽"
}

// formatUSDDelta renders a signed dollar change, e.g. "+1 234 $" or "-56 $".
func formatUSDDelta(m timeseries.Measure) string {
	if !m.Known {
		return placeholder
	}
	rounded := math.Round(m.Value)
	if rounded < 0 {
		return "-" + fixed(-rounded, 0) + " $"
	}
	return "+" + fixed(rounded, 0) + " $"
}

// formatPct renders a signed percentage with two decimals.
func formatPct(m timeseries.Measure) string {
	if !m.Known {
		return placeholder
	}
	s := strconv.FormatFloat(m.Value, 'f', 2, 64)
	if !strings.HasPrefix(s, "-") || s == "-0.00" {
		s = "+" + strings.TrimPrefix(s, "-")
	}
	return s + "%"
}

func measurePtr(m timeseries.Measure) *float64 {
	if !m.Known {
		return nil
	}
	v := m.Value
	return &v
}

// formatAmount renders a converted amount in the target unit's usual precision.
func formatAmount(unit string, d decimal.Decimal) string {
	switch unit {
	case "usd":
		return groupThousands(d.StringFixed(0)) + " $"
	case "rub":
		return groupThousands(d.StringFixed(2)) + " ₽"
	default:
		return d.StringFixed(8) + " " + strings.ToUpper(unit)
	}
}
