package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutolearn/tuto/internal/plan"
)

func TestNew(t *testing.T) {
	a, b := New(42), New(42)
	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, int64(42), a.PlanID())
	assert.Equal(t, plan.DayRef{}, a.CurrentDay())
}

func TestTickets(t *testing.T) {
	s := New(1)

	first := s.Begin(ActionQuiz)
	assert.True(t, s.Valid(first))

	second := s.Begin(ActionQuiz)
	assert.False(t, s.Valid(first), "a newer ticket supersedes")
	assert.True(t, s.Valid(second))

	other := s.Begin(ActionAssistant)
	assert.True(t, s.Valid(other), "actions are independent")
	assert.True(t, s.Valid(second))

	s.Cancel(ActionQuiz)
	assert.False(t, s.Valid(second))
	assert.True(t, s.Valid(other))

	third := s.Begin(ActionQuiz)
	assert.True(t, s.Valid(third), "a ticket issued after cancel is valid")
}

func TestSelectDayInvalidatesTickets(t *testing.T) {
	s := New(1)
	quiz := s.Begin(ActionQuiz)
	ask := s.Begin(ActionAssistant)

	s.SelectDay(plan.DayRef{Week: 0, Day: 0})
	assert.True(t, s.Valid(quiz), "reselecting the same day is a no-op")

	s.SelectDay(plan.DayRef{Week: 0, Day: 1})
	assert.False(t, s.Valid(quiz))
	assert.False(t, s.Valid(ask))
	assert.Equal(t, plan.DayRef{Week: 0, Day: 1}, s.CurrentDay())
}

func TestDo_DedupesConcurrentCalls(t *testing.T) {
	s := New(1)
	var calls atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	results := make([]string, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, _, err := Do(context.Background(), s, "quiz:0/0", func(context.Context) (string, error) {
				calls.Add(1)
				<-release
				return "questions", nil
			})
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		assert.Equal(t, "questions", r)
	}
}

func TestDo_Error(t *testing.T) {
	s := New(1)
	boom := errors.New("boom")

	v, _, err := Do(context.Background(), s, "k", func(context.Context) (int, error) {
		return 7, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, v)
}

func TestGuard_StaleResultDiscarded(t *testing.T) {
	s := New(1)
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan bool)
	go func() {
		_, current, err := Guard(context.Background(), s, ActionQuiz, func(context.Context) (string, error) {
			close(started)
			<-release
			return "late", nil
		})
		assert.NoError(t, err)
		done <- current
	}()

	<-started
	s.Cancel(ActionQuiz)
	close(release)
	assert.False(t, <-done, "result after cancel is stale")

	v, current, err := Guard(context.Background(), s, ActionQuiz, func(context.Context) (string, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.True(t, current)
	assert.Equal(t, "fresh", v)
}

func TestGuard_DaySwitchDiscards(t *testing.T) {
	s := New(1)
	_, current, err := Guard(context.Background(), s, ActionAssistant, func(context.Context) (int, error) {
		s.SelectDay(plan.DayRef{Week: 1, Day: 0})
		return 1, nil
	})
	require.NoError(t, err)
	assert.False(t, current)
}
