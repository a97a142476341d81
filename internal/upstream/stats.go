package upstream

import (
	"context"
	"time"

	"github.com/guttosm/giga-bot/internal/domain/model"
)

var statsHeaders = map[string]string{
	"User-Agent":    "Mozilla/5.0 (compatible; UsersJuicedBot/1.0)",
	"Referer":       "https://giganoob.com/",
	"Cache-Control": "no-cache",
	"Pragma":        "no-cache",
}

// StatsProvider reads the site's user snapshot.
type StatsProvider struct {
	client *Client
	url    string
	now    func() time.Time
}

// NewStatsProvider creates a StatsProvider for the snapshot at url.
func NewStatsProvider(client *Client, url string) *StatsProvider {
	return &StatsProvider{client: client, url: url, now: time.Now}
}

// Fetch downloads the snapshot. Counters are read from "totals" when present, otherwise from
// the top level; missing or unparsable counters are left nil.
func (p *StatsProvider) Fetch(ctx context.Context) (model.UserStats, error) {
	var body any
	err := p.client.GetJSON(ctx, Request{
		Provider: "stats",
		URL:      CacheBusted(p.url, p.now()),
		Headers:  statsHeaders,
		Timeout:  20 * time.Second,
	}, &body)
	if err != nil {
		return model.UserStats{}, err
	}

	doc, ok := body.(map[string]any)
	if !ok {
		return model.UserStats{}, nil
	}
	if totals, ok := doc["totals"].(map[string]any); ok {
		doc = totals
	}
	return model.UserStats{
		Users:  optionalInt(doc["users"]),
		Juiced: optionalInt(doc["juiced"]),
	}, nil
}

func optionalInt(v any) *int64 {
	if v == nil {
		return nil
	}
	i, ok := parseInt(v)
	if !ok {
		return nil
	}
	return &i
}
