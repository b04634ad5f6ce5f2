package quiz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutolearn/tuto/internal/plan"
	"github.com/tutolearn/tuto/internal/store"
)

func TestLastQuizRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	ref := plan.DayRef{Week: 1, Day: 2}

	_, ok, err := LoadLast(ctx, kv, 7, ref)
	require.NoError(t, err)
	assert.False(t, ok)

	qs := DefaultBank().For("python")
	require.NoError(t, SaveLast(ctx, kv, 7, ref, qs))

	got, ok, err := LoadLast(ctx, kv, 7, ref)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, qs, got)

	_, ok, _ = LoadLast(ctx, kv, 7, plan.DayRef{})
	assert.False(t, ok, "quizzes are per day")
}

func TestLoadLast_RejectsBadEntries(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	ref := plan.DayRef{}

	require.NoError(t, kv.Set(ctx, cacheKey(1, ref), "[{"))
	_, ok, err := LoadLast(ctx, kv, 1, ref)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, cacheKey(1, ref), `[{"question":"q","options":["a"],"answer":0}]`))
	_, ok, _ = LoadLast(ctx, kv, 1, ref)
	assert.False(t, ok)
}
