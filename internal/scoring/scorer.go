// Package scoring computes the correctness and point award for a single
// submitted answer. It is deliberately free of any session or transport
// state: given a question and a selection at a given elapsed time, it
// always returns the same result.
package scoring

import (
	"math"
	"time"

	"livequiz/internal/domain"
)

const (
	baseAward    = 500
	bonusAward   = 500
	partialAward = 300
)

// Result is the outcome of scoring one submission.
type Result struct {
	Correct bool
	Points  int
}

// Score grades a submission against a question, given how long after the
// question started the answer was finalized. elapsed may exceed the
// question's time limit (a near-deadline submission); the time ratio is
// clamped to zero in that case rather than going negative.
func Score(q domain.Question, selection []int, elapsed time.Duration) Result {
	r := timeRatio(q.TimeLimit, elapsed)
	if q.Kind == domain.KindMultiple {
		return scoreMultiple(q, selection, r)
	}
	return scoreSingle(q, selection, r)
}

func timeRatio(timeLimit int, elapsed time.Duration) float64 {
	t := float64(timeLimit)
	if t <= 0 {
		return 0
	}
	e := elapsed.Seconds()
	r := (t - e) / t
	if r < 0 {
		return 0
	}
	return r
}

func scoreSingle(q domain.Question, selection []int, r float64) Result {
	if len(selection) != 1 {
		return Result{}
	}
	if !q.CorrectSet()[selection[0]] {
		return Result{}
	}
	return Result{Correct: true, Points: award(r)}
}

func scoreMultiple(q domain.Question, selection []int, r float64) Result {
	if len(selection) == 0 {
		return Result{}
	}

	selected := toSet(selection)
	correct := q.CorrectSet()

	for idx := range selected {
		if !correct[idx] {
			// Any wrong selection disqualifies the whole submission.
			return Result{}
		}
	}

	if len(selected) == len(correct) {
		return Result{Correct: true, Points: award(r)}
	}

	// Partial credit: every selected index was correct, but not all of
	// them were picked. No time bonus applies.
	ratio := float64(len(selected)) / float64(len(correct))
	return Result{Correct: false, Points: int(math.Round(ratio * partialAward))}
}

func award(r float64) int {
	return int(math.Round(baseAward + bonusAward*r))
}

func toSet(indices []int) map[int]struct{} {
	set := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		set[i] = struct{}{}
	}
	return set
}
