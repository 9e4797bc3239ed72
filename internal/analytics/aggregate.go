package analytics

import (
	"math"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/0x0BSoD/cryptoSentiment/internal/model"
	"github.com/0x0BSoD/cryptoSentiment/internal/sentiment"
)

type SentimentCounts struct {
	Bullish int `json:"BULLISH"`
	Bearish int `json:"BEARISH"`
	Neutral int `json:"NEUTRAL"`
	Total   int `json:"total"`
}

func (c *SentimentCounts) add(bucket sentiment.Label) {
	switch bucket {
	case sentiment.Bullish:
		c.Bullish++
	case sentiment.Bearish:
		c.Bearish++
	default:
		c.Neutral++
	}
	c.Total++
}

type TrendPoint struct {
	Date string `json:"date"`
	SentimentCounts
}

type GroupStat struct {
	Name              string  `json:"name"`
	Count             int     `json:"count"`
	AvgSentimentScore float64 `json:"avgSentimentScore"`
}

type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

type Granularity string

const (
	Daily  Granularity = "daily"
	Hourly Granularity = "hourly"
)

func (g Granularity) layout() string {
	if g == Hourly {
		return "2006-01-02 15:00"
	}
	return "2006-01-02"
}

// CountBuckets counts articles per sentiment bucket; rows without a score count as neutral.
func CountBuckets(articles []model.Article) SentimentCounts {
	var c SentimentCounts
	for _, a := range articles {
		c.add(a.Bucket())
	}
	return c
}

// Trend groups articles into UTC sub-intervals and counts buckets per sub-interval.
// Only sub-intervals with at least one article are returned, in ascending order.
func Trend(articles []model.Article, g Granularity) []TrendPoint {
	layout := g.layout()
	byKey := make(map[string]*SentimentCounts)

	for _, a := range articles {
		key := a.PublishedAt.UTC().Format(layout)
		counts, ok := byKey[key]
		if !ok {
			counts = &SentimentCounts{}
			byKey[key] = counts
		}
		counts.add(a.Bucket())
	}

	keys := lo.Keys(byKey)
	slices.Sort(keys)

	return lo.Map(keys, func(key string, _ int) TrendPoint {
		return TrendPoint{Date: key, SentimentCounts: *byKey[key]}
	})
}

type groupAcc struct {
	count  int
	sum    int
	scored int
}

// GroupBy counts articles per non-nil key and averages the scores of rows that have one.
// A group with no scored rows averages to the neutral default.
func GroupBy(articles []model.Article, key func(model.Article) *string, limit int) []GroupStat {
	groups := make(map[string]*groupAcc)

	for _, a := range articles {
		k := key(a)
		if k == nil || *k == "" {
			continue
		}
		acc, ok := groups[*k]
		if !ok {
			acc = &groupAcc{}
			groups[*k] = acc
		}
		acc.count++
		if a.SentimentScore != nil {
			acc.sum += *a.SentimentScore
			acc.scored++
		}
	}

	stats := make([]GroupStat, 0, len(groups))
	for name, acc := range groups {
		avg := float64(sentiment.DefaultScore)
		if acc.scored > 0 {
			avg = round2(float64(acc.sum) / float64(acc.scored))
		}
		stats = append(stats, GroupStat{Name: name, Count: acc.count, AvgSentimentScore: avg})
	}

	slices.SortFunc(stats, func(a, b GroupStat) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.Name, b.Name)
	})

	return stats[:min(len(stats), limit)]
}

// Keywords tallies comma-separated keyword terms; every occurrence counts.
func Keywords(articles []model.Article, limit int) []KeywordCount {
	counts := make(map[string]int)

	for _, a := range articles {
		if a.Keywords == nil {
			continue
		}
		for _, term := range SplitKeywords(*a.Keywords) {
			counts[term]++
		}
	}

	out := make([]KeywordCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, KeywordCount{Keyword: k, Count: n})
	}

	slices.SortFunc(out, func(a, b KeywordCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.Keyword, b.Keyword)
	})

	return out[:min(len(out), limit)]
}

// SplitKeywords splits a stored keyword field into trimmed, non-empty terms, preserving case.
func SplitKeywords(field string) []string {
	terms := lo.Map(strings.Split(field, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
	return lo.Compact(terms)
}

func sourceKey(a model.Article) *string   { return &a.Source }
func assetKey(a model.Article) *string    { return a.Asset }
func categoryKey(a model.Article) *string { return a.Category }
func chainKey(a model.Article) *string    { return a.Chain }

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
