// Package session holds the learner's working context for one run of the
// tool and guards interactive actions against duplicate and stale results.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/tutolearn/tuto/internal/plan"
)

// Actions that can have a request in flight.
const (
	ActionPlan      = "plan"
	ActionQuiz      = "quiz"
	ActionAssistant = "assistant"
)

// Ticket identifies one request for an action. Only the newest ticket for
// an action is valid.
type Ticket struct {
	Action string
	Seq    uint64
}

// Session is the current plan and day, plus request bookkeeping. It is
// safe for concurrent use.
type Session struct {
	ID uuid.UUID

	mu         sync.Mutex
	planID     int64
	currentDay plan.DayRef
	seq        map[string]uint64
	cancelled  map[string]uint64

	group singleflight.Group
}

// New starts a session on planID.
func New(planID int64) *Session {
	return &Session{
		ID:        uuid.New(),
		planID:    planID,
		seq:       make(map[string]uint64),
		cancelled: make(map[string]uint64),
	}
}

// PlanID returns the plan the session is working on.
func (s *Session) PlanID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.planID
}

// CurrentDay returns the selected day.
func (s *Session) CurrentDay() plan.DayRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentDay
}

// SelectDay changes the selected day. Every outstanding ticket is
// invalidated, since its result belongs to the previous day.
func (s *Session) SelectDay(ref plan.DayRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ref == s.currentDay {
		return
	}
	s.currentDay = ref
	for action, n := range s.seq {
		s.cancelled[action] = n
	}
}

// Begin issues a ticket for action, superseding any earlier one.
func (s *Session) Begin(action string) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq[action]++
	return Ticket{Action: action, Seq: s.seq[action]}
}

// Valid reports whether t is still the newest uncancelled ticket for its
// action. A result obtained under an invalid ticket must be discarded.
func (s *Session) Valid(t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return t.Seq == s.seq[t.Action] && t.Seq > s.cancelled[t.Action]
}

// Cancel invalidates every ticket issued so far for action.
func (s *Session) Cancel(action string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelled[action] = s.seq[action]
}

// Do runs fn once for concurrent callers sharing key; later callers wait
// for and share the first caller's result.
func Do[T any](ctx context.Context, s *Session, key string, fn func(context.Context) (T, error)) (T, bool, error) {
	v, err, shared := s.group.Do(key, func() (any, error) {
		return fn(ctx)
	})
	if err != nil {
		var zero T
		return zero, shared, err
	}
	return v.(T), shared, nil
}

// Guard runs fn under a fresh ticket for action and reports whether its
// result is still current once fn returns. Concurrent calls for the same
// action and day share one fn invocation.
func Guard[T any](ctx context.Context, s *Session, action string, fn func(context.Context) (T, error)) (T, bool, error) {
	t := s.Begin(action)
	day := s.CurrentDay()
	key := action + ":" + dayKey(day)

	v, _, err := Do(ctx, s, key, fn)
	if err != nil {
		return v, false, err
	}
	return v, s.Valid(t) && s.CurrentDay() == day, nil
}

func dayKey(ref plan.DayRef) string {
	return fmt.Sprintf("%d/%d", ref.Week, ref.Day)
}
