//go:build !integration

package timeseries

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hourMs = int64(time.Hour / time.Millisecond)

func TestNearest(t *testing.T) {
	series := Series{{0, 1}, {10, 2}, {20, 3}, {30, 4}}

	tests := []struct {
		name     string
		series   Series
		target   int64
		expected Point
		found    bool
	}{
		{name: "empty series", series: nil, target: 5, found: false},
		{name: "exact match", series: series, target: 20, expected: Point{20, 3}, found: true},
		{name: "closer to later point", series: series, target: 17, expected: Point{20, 3}, found: true},
		{name: "tie resolves to earliest index", series: series, target: 15, expected: Point{10, 2}, found: true},
		{name: "before first point", series: series, target: -100, expected: Point{0, 1}, found: true},
		{name: "after last point", series: series, target: 1000, expected: Point{30, 4}, found: true},
		{name: "duplicate timestamps keep first", series: Series{{5, 1}, {5, 9}}, target: 5, expected: Point{5, 1}, found: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := Nearest(tt.series, tt.target)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, p)
		})
	}
}

func TestAnalyze_DeltaFromNearestPoint(t *testing.T) {
	series := Series{{0, 100}, {hourMs, 110}, {24 * hourMs, 150}}
	windows := []Window{
		{Label: "1h", Duration: time.Hour},
		{Label: "23h", Duration: 23 * time.Hour},
		{Label: "24h", Duration: 24 * time.Hour},
	}

	res := Analyze(series, windows)

	assert.Equal(t, Known(150), res.Current)
	require.Len(t, res.Deltas, 3)

	// 23h before the last sample lands exactly on the 110 sample.
	d, ok := res.Delta("23h")
	require.True(t, ok)
	assert.Equal(t, Known(40), d.Absolute)
	require.True(t, d.Percent.Known)
	assert.InDelta(t, 36.3636, d.Percent.Value, 0.001)

	// 1h before the last sample is nearer to the last sample itself than to the 110 sample.
	d, ok = res.Delta("1h")
	require.True(t, ok)
	assert.Equal(t, Known(0), d.Absolute)
	assert.Equal(t, Known(0), d.Percent)

	d, ok = res.Delta("24h")
	require.True(t, ok)
	assert.Equal(t, Known(50), d.Absolute)
	assert.Equal(t, Known(50), d.Percent)
}

func TestAnalyze_NonPositiveComparisonIsUnknown(t *testing.T) {
	tests := []struct {
		name   string
		series Series
	}{
		{name: "zero", series: Series{{0, 0}, {hourMs, 50}}},
		{name: "negative", series: Series{{0, -3}, {hourMs, 50}}},
		{name: "not a number", series: Series{{0, math.NaN()}, {hourMs, 50}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Analyze(tt.series, []Window{{Label: "1h", Duration: time.Hour}})

			assert.Equal(t, Known(50), res.Current)
			d, ok := res.Delta("1h")
			require.True(t, ok)
			assert.Equal(t, Unknown, d.Absolute)
			assert.Equal(t, Unknown, d.Percent)
		})
	}
}

func TestAnalyze_EmptySeries(t *testing.T) {
	res := Analyze(nil, DefaultWindows)

	assert.False(t, res.Current.Known)
	require.Len(t, res.Deltas, len(DefaultWindows))
	for i, d := range res.Deltas {
		assert.Equal(t, DefaultWindows[i], d.Window)
		assert.False(t, d.Absolute.Known)
		assert.False(t, d.Percent.Known)
	}
}

func TestAnalyze_SingleElement(t *testing.T) {
	res := Analyze(Series{{1700000000000, 42.5}}, DefaultWindows)

	assert.Equal(t, Known(42.5), res.Current)
	for _, d := range res.Deltas {
		assert.Equal(t, Known(0), d.Absolute)
		assert.Equal(t, Known(0), d.Percent)
	}
}

func TestAnalyze_NoWindows(t *testing.T) {
	res := Analyze(Series{{0, 1}}, nil)

	assert.Equal(t, Known(1), res.Current)
	assert.Empty(t, res.Deltas)
}

func TestAnalyze_Deterministic(t *testing.T) {
	series := make(Series, 0, 168)
	for i := 0; i < 168; i++ {
		series = append(series, Point{TimestampMs: int64(i) * hourMs, Value: 100 + float64(i%7)*1.37})
	}

	first := Analyze(series, DefaultWindows)
	second := Analyze(series, DefaultWindows)

	assert.Equal(t, first, second)
}

func TestAnalyze_DoesNotMutateInput(t *testing.T) {
	series := Series{{30, 3}, {10, 1}, {20, 2}}
	snapshot := append(Series(nil), series...)

	_ = Analyze(series, DefaultWindows)

	assert.Equal(t, snapshot, series)
}

func TestResult_DeltaMissingLabel(t *testing.T) {
	res := Analyze(Series{{0, 1}}, DefaultWindows)

	_, ok := res.Delta("7d")
	assert.False(t, ok)
}
