// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/giga-bot/internal/domain/model"
	"github.com/guttosm/giga-bot/internal/timeseries"
	"github.com/guttosm/giga-bot/internal/upstream"
	"github.com/stretchr/testify/mock"
)

type MockStatsFetcher struct {
	mock.Mock
}

func (m *MockStatsFetcher) Fetch(ctx context.Context) (model.UserStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.UserStats), args.Error(1)
}

type MockQuoteSource struct {
	mock.Mock
}

func (m *MockQuoteSource) Fetch(ctx context.Context) (upstream.Quotes, error) {
	args := m.Called(ctx)
	return args.Get(0).(upstream.Quotes), args.Error(1)
}

type MockRateSource struct {
	mock.Mock
}

func (m *MockRateSource) Fetch(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

type MockChangeSource struct {
	mock.Mock
}

func (m *MockChangeSource) Change24h(ctx context.Context, coin model.Coin) (float64, error) {
	args := m.Called(ctx, coin)
	return args.Get(0).(float64), args.Error(1)
}

type MockKlineSource struct {
	mock.Mock
}

func (m *MockKlineSource) Klines(ctx context.Context, coin model.Coin, interval string, limit int) (timeseries.Series, error) {
	args := m.Called(ctx, coin, interval, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(timeseries.Series), args.Error(1)
}

type MockChartRenderer struct {
	mock.Mock
}

func (m *MockChartRenderer) Render(ctx context.Context, cfg upstream.ChartConfig, width, height int) ([]byte, error) {
	args := m.Called(ctx, cfg, width, height)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
