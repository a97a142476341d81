// Package model defines the domain values relayed by the bot.
package model

// UserStats is the site's user counter snapshot. Nil fields were missing or unparsable upstream.
type UserStats struct {
	Users  *int64 `json:"users"`
	Juiced *int64 `json:"juiced"`
}

// Complete reports whether both counters are present.
func (s UserStats) Complete() bool {
	return s.Users != nil && s.Juiced != nil
}

// JuicedPercent returns juiced/users*100 when both are known and users is positive.
func (s UserStats) JuicedPercent() (float64, bool) {
	if !s.Complete() || *s.Users <= 0 {
		return 0, false
	}
	return float64(*s.Juiced) / float64(*s.Users) * 100, true
}
