// Package classifier turns article text into a sentiment analysis by prompting an LLM backend.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/0x0BSoD/cryptoSentiment/internal/model"
	"github.com/0x0BSoD/cryptoSentiment/internal/sentiment"
)

const defaultTimeout = 30 * time.Second

type Mode string

const (
	// ModeAnalysis asks for a JSON object with a numeric score and tags.
	ModeAnalysis Mode = "analysis"
	// ModeLabel asks for a single word and carries no score.
	ModeLabel Mode = "label"
)

const analysisPrompt = `You are a cryptocurrency market analyst. Classify the sentiment of the news article you are given.
Reply with a single JSON object and nothing else:
{"sentiment": "BULLISH|BEARISH|NEUTRAL", "score": <integer 0-100, 0 most bearish, 100 most bullish>,
 "asset": "<main ticker such as BTC or ETH, or null>", "category": "<topic such as regulation, defi, nft, markets, security, or null>",
 "chain": "<blockchain name such as Ethereum or Solana, or null>", "keywords": ["<up to 5 short terms>"]}`

const labelPrompt = `You are a cryptocurrency market analyst. Classify the sentiment of the news article you are given.
Answer with exactly one word: BULLISH, BEARISH or NEUTRAL.`

type Completer interface {
	Complete(ctx context.Context, system, text string, jsonReply bool) (string, error)
}

type Classifier struct {
	completer Completer
	mode      Mode
	prompt    string
}

// New builds a classifier. An empty prompt selects the built-in prompt for the mode.
func New(completer Completer, mode Mode, prompt string) (*Classifier, error) {
	switch mode {
	case ModeAnalysis, ModeLabel:
	case "":
		mode = ModeAnalysis
	default:
		return nil, fmt.Errorf("unknown classifier mode %q", mode)
	}

	if prompt == "" {
		prompt = analysisPrompt
		if mode == ModeLabel {
			prompt = labelPrompt
		}
	}

	return &Classifier{completer: completer, mode: mode, prompt: prompt}, nil
}

// Input joins title and content the way the classifier expects them.
func Input(title, content string) string {
	return title + "\n\n" + content
}

func (c *Classifier) Classify(ctx context.Context, text string) (model.Analysis, error) {
	reply, err := c.completer.Complete(ctx, c.prompt, text, c.mode == ModeAnalysis)
	if err != nil {
		return model.Analysis{}, err
	}

	if c.mode == ModeAnalysis {
		if analysis, ok := parseAnalysis(reply); ok {
			return analysis, nil
		}
	}

	label := sentiment.ParseLabel(reply)
	if label == sentiment.Error {
		return model.Analysis{}, fmt.Errorf("unrecognized classifier reply %q", truncate(reply, 80))
	}

	return model.Analysis{Label: label}, nil
}

type analysisReply struct {
	Sentiment string          `json:"sentiment"`
	Score     *float64        `json:"score"`
	Asset     *string         `json:"asset"`
	Category  *string         `json:"category"`
	Chain     *string         `json:"chain"`
	Keywords  json.RawMessage `json:"keywords"`
}

func parseAnalysis(reply string) (model.Analysis, bool) {
	start, end := strings.Index(reply, "{"), strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return model.Analysis{}, false
	}

	var r analysisReply
	if err := json.Unmarshal([]byte(reply[start:end+1]), &r); err != nil {
		return model.Analysis{}, false
	}

	analysis := model.Analysis{
		Label:    sentiment.ParseLabel(r.Sentiment),
		Asset:    normalizeTag(r.Asset, strings.ToUpper),
		Category: normalizeTag(r.Category, strings.ToLower),
		Chain:    normalizeTag(r.Chain, nil),
		Keywords: parseKeywords(r.Keywords),
	}

	if r.Score != nil {
		score := int(math.Round(min(max(*r.Score, sentiment.MinScore), sentiment.MaxScore)))
		analysis.Score = &score
		if analysis.Label == sentiment.Error {
			analysis.Label = sentiment.Bucket(score)
		}
	}

	if analysis.Score == nil && analysis.Label == sentiment.Error {
		return model.Analysis{}, false
	}

	return analysis, true
}

func normalizeTag(tag *string, transform func(string) string) *string {
	if tag == nil {
		return nil
	}
	v := strings.TrimSpace(*tag)
	switch strings.ToLower(v) {
	case "", "null", "none", "n/a", "unknown":
		return nil
	}
	if transform != nil {
		v = transform(v)
	}
	return &v
}

// parseKeywords accepts either a JSON array of strings or a comma-separated string.
func parseKeywords(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		var joined string
		if err := json.Unmarshal(raw, &joined); err != nil {
			return nil
		}
		list = strings.Split(joined, ",")
	}

	list = lo.Map(list, func(k string, _ int) string {
		return strings.ReplaceAll(strings.TrimSpace(k), ",", " ")
	})
	return lo.Compact(list)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
