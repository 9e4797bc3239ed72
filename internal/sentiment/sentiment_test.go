package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucket_Boundaries(t *testing.T) {
	tests := []struct {
		score int
		want  Label
	}{
		{0, Bearish},
		{33, Bearish},
		{34, Neutral},
		{50, Neutral},
		{66, Neutral},
		{67, Bullish},
		{100, Bullish},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Bucket(tt.score), "score %d", tt.score)
	}
}

func TestBucket_PartitionsScoreRange(t *testing.T) {
	for s := MinScore; s <= MaxScore; s++ {
		matches := 0
		for _, l := range []Label{Bullish, Bearish, Neutral} {
			lo, hi, ok := ScoreRange(l)
			require.True(t, ok)
			if s >= lo && s <= hi {
				matches++
				assert.Equal(t, l, Bucket(s), "score %d", s)
			}
		}
		assert.Equal(t, 1, matches, "score %d must fall in exactly one bucket", s)
	}
}

func TestScoreRange_Error(t *testing.T) {
	_, _, ok := ScoreRange(Error)
	assert.False(t, ok)
}

func TestParseLabel(t *testing.T) {
	tests := []struct {
		in   string
		want Label
	}{
		{"BULLISH", Bullish},
		{"the outlook is bullish.", Bullish},
		{"Bearish", Bearish},
		{"  neutral\n", Neutral},
		{"I cannot tell", Error},
		{"", Error},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLabel(tt.in), "input %q", tt.in)
	}
}

func TestLabelFromString(t *testing.T) {
	l, err := LabelFromString("bullish")
	require.NoError(t, err)
	assert.Equal(t, Bullish, l)

	_, err = LabelFromString("moon")
	assert.Error(t, err)
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, ClampScore(-4))
	assert.Equal(t, 100, ClampScore(250))
	assert.Equal(t, 42, ClampScore(42))
}
