// Package sentiment holds the sentiment labels and the single score-to-bucket function used by every
// component that counts or filters articles by sentiment.
package sentiment

import (
	"fmt"
	"strings"
)

type Label string

const (
	Bullish Label = "BULLISH"
	Bearish Label = "BEARISH"
	Neutral Label = "NEUTRAL"
	Error   Label = "ERROR"
)

const (
	MinScore     = 0
	MaxScore     = 100
	DefaultScore = 50

	// BullishMin and BearishMax are inclusive bucket boundaries.
	BullishMin = 67
	BearishMax = 33
)

// Bucket maps a 0-100 score to its bucket.
func Bucket(score int) Label {
	switch {
	case score >= BullishMin:
		return Bullish
	case score <= BearishMax:
		return Bearish
	default:
		return Neutral
	}
}

// ScoreRange returns the inclusive score range covered by a bucket label.
// ERROR has no score range.
func ScoreRange(l Label) (lo, hi int, ok bool) {
	switch l {
	case Bullish:
		return BullishMin, MaxScore, true
	case Bearish:
		return MinScore, BearishMax, true
	case Neutral:
		return BearishMax + 1, BullishMin - 1, true
	}
	return 0, 0, false
}

// ParseLabel normalizes free-form model output into a label by case-insensitive substring match.
func ParseLabel(text string) Label {
	upper := strings.ToUpper(text)
	switch {
	case strings.Contains(upper, "BULL"):
		return Bullish
	case strings.Contains(upper, "BEAR"):
		return Bearish
	case strings.Contains(upper, "NEUTRAL"):
		return Neutral
	}
	return Error
}

// LabelFromString validates a label value, ignoring case and surrounding space.
func LabelFromString(s string) (Label, error) {
	switch l := Label(strings.ToUpper(strings.TrimSpace(s))); l {
	case Bullish, Bearish, Neutral, Error:
		return l, nil
	}
	return "", fmt.Errorf("unknown sentiment %q", s)
}

// ClampScore forces a score into [0,100].
func ClampScore(score int) int {
	return min(max(score, MinScore), MaxScore)
}
