// Package progress persists study plans and tracks per-day completion in a
// key/value store.
package progress

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tutolearn/tuto/internal/plan"
	"github.com/tutolearn/tuto/internal/store"
)

// KeyPlans holds the JSON array of all plans, newest first.
const KeyPlans = "tutoStudyPlans"

func dayProgressKey(planID int64, ref plan.DayRef) string {
	return fmt.Sprintf("dayProgress_%d_%d_%d", planID, ref.Week, ref.Day)
}

func dayEngagementKey(planID int64, ref plan.DayRef) string {
	return fmt.Sprintf("dayEngagement_%d_%d_%d", planID, ref.Week, ref.Day)
}

// Store reads and writes plans and progress records. Writes touching one
// plan are serialized; reads observe every completed write.
type Store struct {
	kv  store.KV
	log *zap.Logger
	now func() time.Time

	// listMu guards read-modify-write of the plan list.
	listMu sync.Mutex

	locksMu sync.Mutex
	locks   map[int64]*sync.Mutex
}

// New creates a Store over kv. A nil logger discards output.
func New(kv store.KV, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		kv:    kv,
		log:   log,
		now:   time.Now,
		locks: make(map[int64]*sync.Mutex),
	}
}

// lockPlan acquires the write lock for planID and returns its release.
func (s *Store) lockPlan(planID int64) func() {
	s.locksMu.Lock()
	mu, ok := s.locks[planID]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[planID] = mu
	}
	s.locksMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

// Plans returns every stored plan, newest first. A corrupt list reads as
// empty.
func (s *Store) Plans(ctx context.Context) ([]plan.StudyPlan, error) {
	var plans []plan.StudyPlan
	ok, err := store.GetJSON(ctx, s.kv, KeyPlans, &plans)
	if err != nil {
		return nil, fmt.Errorf("load plans: %w", err)
	}
	if !ok {
		if raw, present, _ := s.kv.Get(ctx, KeyPlans); present && raw != "" {
			s.log.Warn("stored plan list is unreadable; treating as empty")
		}
		return nil, nil
	}
	return plans, nil
}

// Plan returns the plan with id.
func (s *Store) Plan(ctx context.Context, id int64) (*plan.StudyPlan, error) {
	plans, err := s.Plans(ctx)
	if err != nil {
		return nil, err
	}
	for i := range plans {
		if plans[i].ID == id {
			return &plans[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %d", plan.ErrPlanNotFound, id)
}

// AddPlan prepends p to the plan list. If another plan already has p's id
// the id is bumped until it is unique; the stored id is returned.
func (s *Store) AddPlan(ctx context.Context, p *plan.StudyPlan) (int64, error) {
	s.listMu.Lock()
	defer s.listMu.Unlock()

	plans, err := s.Plans(ctx)
	if err != nil {
		return 0, err
	}

	taken := make(map[int64]bool, len(plans))
	for _, existing := range plans {
		taken[existing.ID] = true
	}
	for taken[p.ID] {
		p.ID++
	}
	p.Progress = OverallProgress(p)

	plans = append([]plan.StudyPlan{*p}, plans...)
	if err := store.PutJSON(ctx, s.kv, KeyPlans, plans); err != nil {
		return 0, fmt.Errorf("save plans: %w", err)
	}

	s.log.Debug("plan stored", zap.Int64("plan_id", p.ID), zap.String("topic", p.Topic))
	return p.ID, nil
}

// Filter returns plans with the given status (all when empty) whose topic,
// overview or difficulty contains search, case-insensitively.
func (s *Store) Filter(ctx context.Context, status plan.Status, search string) ([]plan.StudyPlan, error) {
	plans, err := s.Plans(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(search))
	var out []plan.StudyPlan
	for _, p := range plans {
		if status != "" && p.Status != status {
			continue
		}
		if q != "" && !matches(p, q) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func matches(p plan.StudyPlan, q string) bool {
	for _, field := range []string{p.Topic, p.Overview, string(p.Difficulty)} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// updatePlan applies fn to the stored plan with id and saves the list.
func (s *Store) updatePlan(ctx context.Context, id int64, fn func(p *plan.StudyPlan) error) (*plan.StudyPlan, error) {
	s.listMu.Lock()
	defer s.listMu.Unlock()

	plans, err := s.Plans(ctx)
	if err != nil {
		return nil, err
	}
	for i := range plans {
		if plans[i].ID != id {
			continue
		}
		if err := fn(&plans[i]); err != nil {
			return nil, err
		}
		if err := store.PutJSON(ctx, s.kv, KeyPlans, plans); err != nil {
			return nil, fmt.Errorf("save plans: %w", err)
		}
		updated := plans[i]
		return &updated, nil
	}
	return nil, fmt.Errorf("%w: %d", plan.ErrPlanNotFound, id)
}
