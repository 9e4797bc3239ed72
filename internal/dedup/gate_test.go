package dedup

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIndex struct {
	titles  map[string]bool
	lookups int
	err     error
}

func (f *fakeIndex) ExistsTitle(_ context.Context, title string) (bool, error) {
	f.lookups++
	if f.err != nil {
		return false, f.err
	}
	return f.titles[title], nil
}

func (f *fakeIndex) Titles(context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]string, 0, len(f.titles))
	for t := range f.titles {
		out = append(out, t)
	}
	return out, nil
}

func TestGate_WarmServesFromCache(t *testing.T) {
	idx := &fakeIndex{titles: map[string]bool{"ETF approved": true}}
	g := New(idx)
	require.NoError(t, g.Warm(context.Background()))

	exists, err := g.Exists(context.Background(), "ETF approved")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Zero(t, idx.lookups)
}

func TestGate_MissFallsThroughToStore(t *testing.T) {
	idx := &fakeIndex{titles: map[string]bool{"stored elsewhere": true}}
	g := New(idx)

	exists, err := g.Exists(context.Background(), "stored elsewhere")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = g.Exists(context.Background(), "stored elsewhere")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, 1, idx.lookups, "second lookup must hit the cache")

	exists, err = g.Exists(context.Background(), "brand new")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGate_RememberAndErrors(t *testing.T) {
	idx := &fakeIndex{err: errors.New("db down")}
	g := New(idx)

	_, err := g.Exists(context.Background(), "x")
	assert.Error(t, err)
	assert.Error(t, g.Warm(context.Background()))

	g.Remember("x")
	exists, err := g.Exists(context.Background(), "x")
	require.NoError(t, err)
	assert.True(t, exists)
}
