package plan

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPreferences is the cause when inputs fail validation.
	ErrInvalidPreferences = errors.New("invalid preferences")

	// ErrInvalidShape is the cause when the model's reply is not a plan.
	ErrInvalidShape = errors.New("invalid plan structure received from AI")

	// ErrPlanNotFound is returned by lookups for an unknown plan id.
	ErrPlanNotFound = errors.New("plan not found")

	// ErrDayNotFound is returned for a day reference outside the schedule.
	ErrDayNotFound = errors.New("day not found")
)

// GenerationError reports a failed plan generation. Cause is a
// *llm.ProviderError, *llm.ConfigError, *ValidationError or wraps
// ErrInvalidPreferences.
type GenerationError struct {
	Cause error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate study plan: %v", e.Cause)
}

func (e *GenerationError) Unwrap() error { return e.Cause }

// ValidationError describes why a reply failed the plan shape check.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvalidShape, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidShape
}
