package quiz

import "math"

// Unanswered marks a question the learner skipped.
const Unanswered = -1

// PassPercent is the score at which a quiz counts as passed.
const PassPercent = 60

// Score is the outcome of grading.
type Score struct {
	Correct int
	Total   int
	Percent int
	// PerQuestion records whether each question was answered correctly.
	PerQuestion []bool
}

// Passed reports whether the score meets PassPercent.
func (s Score) Passed() bool {
	return s.Total > 0 && s.Percent >= PassPercent
}

// Grade compares selections against the answer key. A missing, unanswered
// or out-of-range selection counts as incorrect.
func Grade(questions []Question, selections []int) Score {
	s := Score{Total: len(questions), PerQuestion: make([]bool, len(questions))}
	for i, q := range questions {
		if i >= len(selections) {
			continue
		}
		sel := selections[i]
		if sel < 0 || sel >= len(q.Options) {
			continue
		}
		if sel == q.Answer {
			s.Correct++
			s.PerQuestion[i] = true
		}
	}
	if s.Total > 0 {
		s.Percent = int(math.Round(100 * float64(s.Correct) / float64(s.Total)))
	}
	return s
}
