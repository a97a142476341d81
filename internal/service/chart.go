package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/guttosm/giga-bot/internal/domain/model"
	"github.com/guttosm/giga-bot/internal/timeseries"
	"github.com/guttosm/giga-bot/internal/upstream"
)

const (
	chartInterval = "1h"
	chartPoints   = 168
	chartWidth    = 800
	chartHeight   = 400
)

var (
	// ErrEmptySeries is returned when the exchange had no candles for the coin.
	ErrEmptySeries = errors.New("empty price series")
	// ErrRender wraps failures of the chart renderer.
	ErrRender = errors.New("chart rendering failed")
)

// KlineSource returns a coin's close-price series.
type KlineSource interface {
	Klines(ctx context.Context, coin model.Coin, interval string, limit int) (timeseries.Series, error)
}

// ChartRenderer turns a chart config into PNG bytes.
type ChartRenderer interface {
	Render(ctx context.Context, cfg upstream.ChartConfig, width, height int) ([]byte, error)
}

// Chart is a rendered weekly chart with its caption figures.
type Chart struct {
	Coin     model.Coin
	PNG      []byte
	Analysis timeseries.Result
}

// ChartGenerator defines the interface for building coin charts.
type ChartGenerator interface {
	Coin(ctx context.Context, coin model.Coin) (Chart, error)
}

// ChartService builds weekly hourly charts. Results are not cached.
type ChartService struct {
	klines   KlineSource
	renderer ChartRenderer
	windows  []timeseries.Window
}

// NewChartService creates a ChartService analyzing the default 1h/6h/24h windows.
func NewChartService(klines KlineSource, renderer ChartRenderer) *ChartService {
	return &ChartService{klines: klines, renderer: renderer, windows: timeseries.DefaultWindows}
}

// Coin fetches a week of hourly closes for coin, analyzes them and renders the chart.
func (s *ChartService) Coin(ctx context.Context, coin model.Coin) (Chart, error) {
	series, err := s.klines.Klines(ctx, coin, chartInterval, chartPoints)
	if err != nil {
		return Chart{}, fmt.Errorf("chart %s: %w", coin, err)
	}
	if len(series) == 0 {
		return Chart{}, fmt.Errorf("chart %s: %w", coin, ErrEmptySeries)
	}

	values := make([]float64, len(series))
	for i, p := range series {
		values[i] = p.Value
	}

	png, err := s.renderer.Render(ctx, upstream.LineChart(values, string(coin)+" 7d", coin.ChartColor()), chartWidth, chartHeight)
	if err != nil {
		return Chart{}, fmt.Errorf("chart %s: %w: %w", coin, ErrRender, err)
	}

	return Chart{
		Coin:     coin,
		PNG:      png,
		Analysis: timeseries.Analyze(series, s.windows),
	}, nil
}
