package upstream

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"
)

// ChartConfig is a Chart.js configuration as accepted by QuickChart.
type ChartConfig struct {
	Type    string       `json:"type"`
	Data    ChartData    `json:"data"`
	Options ChartOptions `json:"options"`
}

// ChartData holds labels and datasets.
type ChartData struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

// ChartDataset is a single line.
type ChartDataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BorderColor     string    `json:"borderColor"`
	BackgroundColor string    `json:"backgroundColor"`
	BorderWidth     int       `json:"borderWidth"`
	Tension         float64   `json:"tension"`
	PointRadius     int       `json:"pointRadius"`
}

// ChartOptions hides legend and axes for a sparkline look.
type ChartOptions struct {
	Plugins struct {
		Legend struct {
			Display bool `json:"display"`
		} `json:"legend"`
	} `json:"plugins"`
	Scales struct {
		X struct {
			Display bool `json:"display"`
		} `json:"x"`
		Y struct {
			Display bool `json:"display"`
		} `json:"y"`
	} `json:"scales"`
	Layout struct {
		Padding int `json:"padding"`
	} `json:"layout"`
}

// LineChart builds a minimal line chart of values, rounded to cents, with blank labels.
func LineChart(values []float64, label, color string) ChartConfig {
	data := make([]float64, len(values))
	for i, v := range values {
		data[i] = math.Round(v*100) / 100
	}

	cfg := ChartConfig{
		Type: "line",
		Data: ChartData{
			Labels: make([]string, len(values)),
			Datasets: []ChartDataset{{
				Label:           label,
				Data:            data,
				BorderColor:     color,
				BackgroundColor: "rgba(0,0,0,0)",
				BorderWidth:     2,
				Tension:         0.25,
				PointRadius:     0,
			}},
		},
	}
	cfg.Options.Layout.Padding = 4
	return cfg
}

// QuickChart renders chart configs to PNG through quickchart.io.
type QuickChart struct {
	client  *Client
	baseURL string
	timeout time.Duration
}

// NewQuickChart creates a renderer rooted at baseURL.
func NewQuickChart(client *Client, baseURL string, timeout time.Duration) *QuickChart {
	return &QuickChart{client: client, baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout}
}

type renderRequest struct {
	Chart           ChartConfig `json:"chart"`
	Width           int         `json:"width"`
	Height          int         `json:"height"`
	Format          string      `json:"format"`
	BackgroundColor string      `json:"backgroundColor"`
}

// Render returns the PNG bytes of cfg at the given size.
func (q *QuickChart) Render(ctx context.Context, cfg ChartConfig, width, height int) ([]byte, error) {
	return q.client.Do(ctx, Request{
		Provider: "quickchart",
		Method:   http.MethodPost,
		URL:      q.baseURL + "/chart",
		Headers:  map[string]string{"Accept": "image/png"},
		Body: renderRequest{
			Chart:           cfg,
			Width:           width,
			Height:          height,
			Format:          "png",
			BackgroundColor: "white",
		},
		Timeout: q.timeout,
	})
}
