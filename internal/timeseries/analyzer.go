// Package timeseries derives price deltas over fixed look-back windows from a sampled series.
package timeseries

import "time"

// Point is a single sample: a millisecond timestamp and a value.
type Point struct {
	TimestampMs int64
	Value       float64
}

// Series is an ordered list of points, ascending by timestamp.
type Series []Point

// Window is a named look-back duration.
type Window struct {
	Label    string
	Duration time.Duration
}

// DefaultWindows are the windows shown in chart captions.
var DefaultWindows = []Window{
	{Label: "1h", Duration: time.Hour},
	{Label: "6h", Duration: 6 * time.Hour},
	{Label: "24h", Duration: 24 * time.Hour},
}

// Measure is a float that may be unknown.
type Measure struct {
	Value float64
	Known bool
}

// Known wraps v as a known measure.
func Known(v float64) Measure {
	return Measure{Value: v, Known: true}
}

// Unknown is the zero Measure.
var Unknown = Measure{}

// Delta is the change of the latest value relative to one window back.
type Delta struct {
	Window   Window
	Absolute Measure
	Percent  Measure
}

// Result holds the latest value and one Delta per requested window, in window order.
type Result struct {
	Current Measure
	Deltas  []Delta
}

// Delta returns the delta for the window with the given label.
func (r Result) Delta(label string) (Delta, bool) {
	for _, d := range r.Deltas {
		if d.Window.Label == label {
			return d, true
		}
	}
	return Delta{}, false
}

// Nearest returns the point whose timestamp is closest to targetMs.
// Equidistant points resolve to the earliest index.
func Nearest(series Series, targetMs int64) (Point, bool) {
	if len(series) == 0 {
		return Point{}, false
	}

	best := 0
	bestDist := distance(series[0].TimestampMs, targetMs)
	for i := 1; i < len(series); i++ {
		if d := distance(series[i].TimestampMs, targetMs); d < bestDist {
			best, bestDist = i, d
		}
	}
	return series[best], true
}

func distance(a, b int64) uint64 {
	if a > b {
		return uint64(a) - uint64(b)
	}
	return uint64(b) - uint64(a)
}

// Analyze computes the latest value and its change over each window.
//
// The reference "now" is the timestamp of the last point, so the result depends only on the
// input. A window whose comparison point is missing or not positive yields unknown deltas.
func Analyze(series Series, windows []Window) Result {
	res := Result{Deltas: make([]Delta, len(windows))}
	for i, w := range windows {
		res.Deltas[i] = Delta{Window: w}
	}
	if len(series) == 0 {
		return res
	}

	last := series[len(series)-1]
	res.Current = Known(last.Value)

	for i, w := range windows {
		prev, ok := Nearest(series, last.TimestampMs-w.Duration.Milliseconds())
		// NaN fails the comparison and stays unknown.
		if !ok || !(prev.Value > 0) {
			continue
		}
		abs := last.Value - prev.Value
		res.Deltas[i].Absolute = Known(abs)
		res.Deltas[i].Percent = Known(abs / prev.Value * 100)
	}
	return res
}
