package quiz

import (
	"context"
	"fmt"

	"github.com/tutolearn/tuto/internal/plan"
	"github.com/tutolearn/tuto/internal/store"
)

// cacheKey holds the last quiz shown for a day, so that answers submitted
// later are graded against the same questions.
func cacheKey(planID int64, ref plan.DayRef) string {
	return fmt.Sprintf("dayQuiz_%d_%d_%d", planID, ref.Week, ref.Day)
}

// SaveLast stores qs as the current quiz for the day.
func SaveLast(ctx context.Context, kv store.KV, planID int64, ref plan.DayRef, qs []Question) error {
	return store.PutJSON(ctx, kv, cacheKey(planID, ref), qs)
}

// LoadLast returns the stored quiz for the day. Unreadable entries and
// entries holding an invalid question report ok=false.
func LoadLast(ctx context.Context, kv store.KV, planID int64, ref plan.DayRef) ([]Question, bool, error) {
	var qs []Question
	ok, err := store.GetJSON(ctx, kv, cacheKey(planID, ref), &qs)
	if err != nil || !ok || len(qs) == 0 {
		return nil, false, err
	}
	for _, q := range qs {
		if !q.Valid() {
			return nil, false, nil
		}
	}
	return qs, true, nil
}
