package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0x0BSoD/cryptoSentiment/internal/sentiment"
)

type stubCompleter struct {
	reply     string
	err       error
	gotJSON   bool
	gotText   string
	gotSystem string
}

func (s *stubCompleter) Complete(_ context.Context, system, text string, jsonReply bool) (string, error) {
	s.gotSystem, s.gotText, s.gotJSON = system, text, jsonReply
	return s.reply, s.err
}

func TestClassify_AnalysisJSON(t *testing.T) {
	stub := &stubCompleter{reply: "Sure! ```json\n" + `{"sentiment":"bullish","score":81.6,"asset":"btc","category":"Markets","chain":"Bitcoin","keywords":["etf"," inflows ",""]}` + "\n```"}
	c, err := New(stub, ModeAnalysis, "")
	require.NoError(t, err)

	a, err := c.Classify(context.Background(), Input("Title", "Body"))
	require.NoError(t, err)

	assert.True(t, stub.gotJSON)
	assert.Equal(t, "Title\n\nBody", stub.gotText)
	assert.Equal(t, analysisPrompt, stub.gotSystem)

	assert.Equal(t, sentiment.Bullish, a.Label)
	require.NotNil(t, a.Score)
	assert.Equal(t, 82, *a.Score)
	require.NotNil(t, a.Asset)
	assert.Equal(t, "BTC", *a.Asset)
	require.NotNil(t, a.Category)
	assert.Equal(t, "markets", *a.Category)
	require.NotNil(t, a.Chain)
	assert.Equal(t, "Bitcoin", *a.Chain)
	assert.Equal(t, []string{"etf", "inflows"}, a.Keywords)
}

func TestClassify_ScoreClampedAndLabelDerived(t *testing.T) {
	stub := &stubCompleter{reply: `{"score": 140, "asset": "null", "chain": null, "keywords": "defi, hack"}`}
	c, err := New(stub, ModeAnalysis, "")
	require.NoError(t, err)

	a, err := c.Classify(context.Background(), "text")
	require.NoError(t, err)

	require.NotNil(t, a.Score)
	assert.Equal(t, 100, *a.Score)
	assert.Equal(t, sentiment.Bullish, a.Label)
	assert.Nil(t, a.Asset)
	assert.Nil(t, a.Chain)
	assert.Equal(t, []string{"defi", "hack"}, a.Keywords)
}

func TestClassify_AnalysisFallsBackToLabel(t *testing.T) {
	stub := &stubCompleter{reply: "Bearish, regulators are cracking down."}
	c, err := New(stub, ModeAnalysis, "")
	require.NoError(t, err)

	a, err := c.Classify(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, sentiment.Bearish, a.Label)
	assert.Nil(t, a.Score)
}

func TestClassify_LabelMode(t *testing.T) {
	stub := &stubCompleter{reply: "NEUTRAL"}
	c, err := New(stub, ModeLabel, "")
	require.NoError(t, err)

	a, err := c.Classify(context.Background(), "text")
	require.NoError(t, err)
	assert.False(t, stub.gotJSON)
	assert.Equal(t, labelPrompt, stub.gotSystem)
	assert.Equal(t, sentiment.Neutral, a.Label)
	assert.Nil(t, a.Score)
}

func TestClassify_Errors(t *testing.T) {
	t.Run("backend error", func(t *testing.T) {
		c, err := New(&stubCompleter{err: errors.New("timeout")}, ModeAnalysis, "")
		require.NoError(t, err)
		_, err = c.Classify(context.Background(), "text")
		assert.Error(t, err)
	})

	t.Run("unparseable reply", func(t *testing.T) {
		c, err := New(&stubCompleter{reply: "I am not sure"}, ModeLabel, "")
		require.NoError(t, err)
		_, err = c.Classify(context.Background(), "text")
		assert.Error(t, err)
	})
}

func TestNew_UnknownMode(t *testing.T) {
	_, err := New(&stubCompleter{}, Mode("vibes"), "")
	assert.Error(t, err)
}

func TestParseAnalysis_ScoreRange(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		score int
		label sentiment.Label
	}{
		{name: "huge score", reply: `{"sentiment":"BULLISH","score":1e20}`, score: 100, label: sentiment.Bullish},
		{name: "huge negative score", reply: `{"sentiment":"BEARISH","score":-1e20}`, score: 0, label: sentiment.Bearish},
		{name: "fractional score rounds", reply: `{"score":66.5}`, score: 67, label: sentiment.Bullish},
		{name: "slightly below zero", reply: `{"score":-0.4}`, score: 0, label: sentiment.Bearish},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, ok := parseAnalysis(tt.reply)
			require.True(t, ok)
			require.NotNil(t, a.Score)
			assert.Equal(t, tt.score, *a.Score)
			assert.Equal(t, tt.label, a.Label)
			assert.Equal(t, tt.label, sentiment.Bucket(*a.Score), "label and score agree")
		})
	}
}
