// Package plan generates study plans with an AI provider and defines the
// plan data model persisted by the progress store.
package plan

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty is the learner's self-assessed level.
type Difficulty string

const (
	Beginner     Difficulty = "Beginner"
	Intermediate Difficulty = "Intermediate"
	Advanced     Difficulty = "Advanced"
)

// ParseDifficulty matches s case-insensitively against the known levels.
func ParseDifficulty(s string) (Difficulty, bool) {
	for _, d := range []Difficulty{Beginner, Intermediate, Advanced} {
		if strings.EqualFold(strings.TrimSpace(s), string(d)) {
			return d, true
		}
	}
	return "", false
}

// Status is the lifecycle state of a plan.
type Status string

const (
	StatusPlanning  Status = "planning"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// StudyPlan is a generated multi-week schedule. The JSON layout is the
// persisted format.
type StudyPlan struct {
	ID             int64      `json:"id"`
	Topic          string     `json:"topic"`
	Duration       string     `json:"duration"`
	Difficulty     Difficulty `json:"difficulty"`
	TimePerDay     string     `json:"timePerDay"`
	Overview       string     `json:"overview"`
	Schedule       []Week     `json:"schedule"`
	LearningStyles []string   `json:"learningStyles"`
	Status         Status     `json:"status"`
	Progress       int        `json:"progress"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// Week groups consecutive days.
type Week struct {
	Title string `json:"title"`
	Days  []Day  `json:"days"`
}

// Day is one lesson. Topics is never empty.
type Day struct {
	Title        string     `json:"title"`
	Topics       []string   `json:"topics"`
	Activities   []string   `json:"activities"`
	TimeRequired int        `json:"timeRequired"`
	Completed    bool       `json:"completed"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

// PrimaryTopic is the first topic, falling back to the title.
func (d Day) PrimaryTopic() string {
	if len(d.Topics) > 0 && strings.TrimSpace(d.Topics[0]) != "" {
		return d.Topics[0]
	}
	return d.Title
}

// Preferences are the learner's inputs to plan generation.
type Preferences struct {
	Duration       int // days
	Difficulty     Difficulty
	TimePerDay     int // minutes
	LearningStyles []string
}

// Validate checks the preference ranges.
func (p Preferences) Validate() error {
	switch {
	case p.Duration < 1 || p.Duration > 90:
		return fmt.Errorf("%w: duration must be 1-90 days, got %d", ErrInvalidPreferences, p.Duration)
	case p.TimePerDay < 5 || p.TimePerDay > 480:
		return fmt.Errorf("%w: time per day must be 5-480 minutes, got %d", ErrInvalidPreferences, p.TimePerDay)
	}
	if _, ok := ParseDifficulty(string(p.Difficulty)); !ok {
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidPreferences, p.Difficulty)
	}
	return nil
}

// DefaultPreferences mirrors the create-plan form defaults.
func DefaultPreferences() Preferences {
	return Preferences{
		Duration:   14,
		Difficulty: Intermediate,
		TimePerDay: 30,
	}
}
