package ingest

import (
	"time"

	"github.com/0x0BSoD/cryptoSentiment/internal/model"
)

type Outcome int

const (
	// OutcomeStored means a new article was written.
	OutcomeStored Outcome = iota
	// OutcomeSkipped means the title was already stored.
	OutcomeSkipped
	// OutcomeFailed means the dedup lookup or the insert failed.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeStored:
		return "stored"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// Result is the outcome of one candidate. Degraded marks a stored article whose classification failed
// and was replaced by the neutral fallback.
type Result struct {
	Title    string
	Outcome  Outcome
	Degraded bool
	Article  model.Article
	Err      error
}

func summarize(fetched int, results []Result, took time.Duration) model.CycleSummary {
	s := model.CycleSummary{Fetched: fetched, Duration: took}
	for _, r := range results {
		switch r.Outcome {
		case OutcomeStored:
			s.New++
		case OutcomeSkipped:
			s.Skipped++
		case OutcomeFailed:
			s.Errored++
		}
		if r.Degraded {
			s.Degraded++
		}
	}
	return s
}
