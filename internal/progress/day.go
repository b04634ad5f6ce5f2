package progress

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/tutolearn/tuto/internal/plan"
	"github.com/tutolearn/tuto/internal/store"
)

const (
	// TrackedSections is the number of lesson sections that count toward
	// content engagement.
	TrackedSections = 4
	// TrackedCodeExamples caps the code interactions that count.
	TrackedCodeExamples = 3

	contentWeight = 60.0
	codeWeight    = 40.0
)

// Engagement is the last recorded interaction counts for a day.
type Engagement struct {
	Sections int `json:"sections"`
	Code     int `json:"code"`
}

// EngagementPercent scores a day: content sections are worth 60% across
// four sections, code examples 40% capped at three interactions.
func EngagementPercent(sections, code int) int {
	sections = min(max(sections, 0), TrackedSections)
	code = max(code, 0)

	content := float64(sections) / TrackedSections * contentWeight
	coding := math.Min(float64(code)/TrackedCodeExamples*codeWeight, codeWeight)
	return int(math.Round(math.Min(content+coding, 100)))
}

// OverallProgress is the rounded share of completed days, 0 for a plan
// without days.
func OverallProgress(p *plan.StudyPlan) int {
	total := p.TotalDays()
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(p.CompletedDays()) / float64(total)))
}

// DayPercent returns the stored percent for a day, 0 when none is recorded
// or the stored value is unreadable.
func (s *Store) DayPercent(ctx context.Context, planID int64, ref plan.DayRef) int {
	pct, err := s.dayPercent(ctx, planID, ref)
	if err != nil {
		s.log.Warn("read day progress", zap.Int64("plan_id", planID), zap.Error(err))
		return 0
	}
	return pct
}

func (s *Store) dayPercent(ctx context.Context, planID int64, ref plan.DayRef) (int, error) {
	var pct int
	ok, err := store.GetJSON(ctx, s.kv, dayProgressKey(planID, ref), &pct)
	if err != nil || !ok {
		return 0, err
	}
	return min(max(pct, 0), 100), nil
}

// MarkDayComplete sets the day's completed flag and percent to 100, then
// recomputes the plan's overall progress. Repeating it only refreshes
// completedAt.
func (s *Store) MarkDayComplete(ctx context.Context, planID int64, ref plan.DayRef) (*plan.StudyPlan, error) {
	unlock := s.lockPlan(planID)
	defer unlock()

	now := s.now()
	updated, err := s.updatePlan(ctx, planID, func(p *plan.StudyPlan) error {
		day, ok := p.DayAt(ref)
		if !ok {
			return fmt.Errorf("%w: week %d day %d", plan.ErrDayNotFound, ref.Week, ref.Day)
		}
		day.Completed = true
		day.CompletedAt = &now

		p.Progress = OverallProgress(p)
		if p.Progress == 100 {
			p.Status = plan.StatusCompleted
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := store.PutJSON(ctx, s.kv, dayProgressKey(planID, ref), 100); err != nil {
		return nil, fmt.Errorf("save day progress: %w", err)
	}
	return updated, nil
}

// RecordInteraction scores the engagement counts and stores the higher of
// the new and previously stored percent. It returns the stored percent.
func (s *Store) RecordInteraction(ctx context.Context, planID int64, ref plan.DayRef, sections, code int) (int, error) {
	unlock := s.lockPlan(planID)
	defer unlock()

	if err := s.checkDay(ctx, planID, ref); err != nil {
		return 0, err
	}
	if err := store.PutJSON(ctx, s.kv, dayEngagementKey(planID, ref), Engagement{Sections: sections, Code: code}); err != nil {
		return 0, fmt.Errorf("save engagement: %w", err)
	}
	return s.raiseDayPercent(ctx, planID, ref, EngagementPercent(sections, code))
}

// RecordQuizCompletion re-applies the day's last recorded engagement after
// a graded quiz. A day with no recorded engagement is left untouched.
func (s *Store) RecordQuizCompletion(ctx context.Context, planID int64, ref plan.DayRef) (int, error) {
	unlock := s.lockPlan(planID)
	defer unlock()

	if err := s.checkDay(ctx, planID, ref); err != nil {
		return 0, err
	}
	var e Engagement
	if _, err := store.GetJSON(ctx, s.kv, dayEngagementKey(planID, ref), &e); err != nil {
		return 0, fmt.Errorf("load engagement: %w", err)
	}
	return s.raiseDayPercent(ctx, planID, ref, EngagementPercent(e.Sections, e.Code))
}

// raiseDayPercent stores pct unless a higher value is already stored.
// Callers hold the plan lock.
func (s *Store) raiseDayPercent(ctx context.Context, planID int64, ref plan.DayRef, pct int) (int, error) {
	old, err := s.dayPercent(ctx, planID, ref)
	if err != nil {
		return 0, fmt.Errorf("load day progress: %w", err)
	}
	if pct <= old {
		return old, nil
	}
	if err := store.PutJSON(ctx, s.kv, dayProgressKey(planID, ref), pct); err != nil {
		return 0, fmt.Errorf("save day progress: %w", err)
	}
	return pct, nil
}

func (s *Store) checkDay(ctx context.Context, planID int64, ref plan.DayRef) error {
	p, err := s.Plan(ctx, planID)
	if err != nil {
		return err
	}
	if _, ok := p.DayAt(ref); !ok {
		return fmt.Errorf("%w: week %d day %d", plan.ErrDayNotFound, ref.Week, ref.Day)
	}
	return nil
}

// Encouragement is the short notice shown after an interaction raises a
// day to pct, or "" below the first milestone.
func Encouragement(pct int) string {
	switch {
	case pct >= 100:
		return "Great job! You've completed all learning activities for today!"
	case pct >= 50:
		return "Keep going! You're making excellent progress!"
	case pct >= 25:
		return "Good start! Keep exploring the content!"
	}
	return ""
}
