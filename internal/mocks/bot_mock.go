// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/giga-bot/internal/bot"
	"github.com/guttosm/giga-bot/internal/domain/model"
	"github.com/guttosm/giga-bot/internal/service"
	"github.com/guttosm/giga-bot/internal/timeseries"
	"github.com/stretchr/testify/mock"
)

type MockMessenger struct {
	mock.Mock
}

func (m *MockMessenger) SendText(ctx context.Context, chatID int64, text string, kb bot.Keyboard) error {
	args := m.Called(ctx, chatID, text, kb)
	return args.Error(0)
}

func (m *MockMessenger) EditText(ctx context.Context, chatID int64, messageID int, text string, kb bot.Keyboard) error {
	args := m.Called(ctx, chatID, messageID, text, kb)
	return args.Error(0)
}

func (m *MockMessenger) SendPhoto(ctx context.Context, chatID int64, png []byte, caption string) error {
	args := m.Called(ctx, chatID, png, caption)
	return args.Error(0)
}

func (m *MockMessenger) AnswerCallback(ctx context.Context, callbackID, text string) error {
	args := m.Called(ctx, callbackID, text)
	return args.Error(0)
}

type MockStatsReader struct {
	mock.Mock
}

func (m *MockStatsReader) Get(ctx context.Context, force bool) (model.UserStats, error) {
	args := m.Called(ctx, force)
	return args.Get(0).(model.UserStats), args.Error(1)
}

type MockMarketReader struct {
	mock.Mock
}

func (m *MockMarketReader) Get(ctx context.Context, force bool) (model.MarketPrices, error) {
	args := m.Called(ctx, force)
	return args.Get(0).(model.MarketPrices), args.Error(1)
}

func (m *MockMarketReader) Change24h(ctx context.Context, coin model.Coin) timeseries.Measure {
	args := m.Called(ctx, coin)
	return args.Get(0).(timeseries.Measure)
}

type MockChartGenerator struct {
	mock.Mock
}

func (m *MockChartGenerator) Coin(ctx context.Context, coin model.Coin) (service.Chart, error) {
	args := m.Called(ctx, coin)
	return args.Get(0).(service.Chart), args.Error(1)
}

type MockUpdateHandler struct {
	mock.Mock
}

func (m *MockUpdateHandler) HandleUpdate(ctx context.Context, u bot.Update) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}
