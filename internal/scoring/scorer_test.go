package scoring_test

import (
	"testing"
	"time"

	"livequiz/internal/domain"
	"livequiz/internal/scoring"

	"github.com/stretchr/testify/assert"
)

func singleChoice() domain.Question {
	return domain.Question{
		Prompt:    "2+2?",
		Answers:   []string{"3", "4", "5", "6"},
		Correct:   []int{1},
		TimeLimit: 20,
		Kind:      domain.KindSingle,
	}
}

func multiChoice() domain.Question {
	return domain.Question{
		Prompt:    "pick the primes",
		Answers:   []string{"2", "3", "4", "9"},
		Correct:   []int{0, 1},
		TimeLimit: 20,
		Kind:      domain.KindMultiple,
	}
}

func TestScoreSingleCorrectImmediate(t *testing.T) {
	r := scoring.Score(singleChoice(), []int{1}, 0)
	assert.True(t, r.Correct)
	assert.Equal(t, 1000, r.Points)
}

func TestScoreSingleHalfTimeBonus(t *testing.T) {
	r := scoring.Score(singleChoice(), []int{1}, 10*time.Second)
	assert.True(t, r.Correct)
	assert.Equal(t, 750, r.Points)
}

func TestScoreSingleIncorrect(t *testing.T) {
	r := scoring.Score(singleChoice(), []int{0}, 0)
	assert.False(t, r.Correct)
	assert.Equal(t, 0, r.Points)
}

func TestScoreSingleAtDeadline(t *testing.T) {
	r := scoring.Score(singleChoice(), []int{1}, 20*time.Second)
	assert.True(t, r.Correct)
	assert.Equal(t, 500, r.Points)
}

func TestScoreSinglePastDeadlineClampsRatio(t *testing.T) {
	r := scoring.Score(singleChoice(), []int{1}, 25*time.Second)
	assert.True(t, r.Correct)
	assert.Equal(t, 500, r.Points)
}

func TestScoreMultiplePerfect(t *testing.T) {
	r := scoring.Score(multiChoice(), []int{0, 1}, 0)
	assert.True(t, r.Correct)
	assert.Equal(t, 1000, r.Points)
}

func TestScoreMultiplePerfectEquivalentToSingleAtSameElapsed(t *testing.T) {
	single := scoring.Score(singleChoice(), []int{1}, 10*time.Second)
	multi := scoring.Score(multiChoice(), []int{0, 1}, 10*time.Second)
	assert.Equal(t, single.Points, multi.Points)
}

func TestScoreMultiplePartial(t *testing.T) {
	q := domain.Question{Correct: []int{0, 1, 2}, TimeLimit: 20, Kind: domain.KindMultiple}
	r := scoring.Score(q, []int{0, 1}, 0)
	assert.False(t, r.Correct)
	assert.Equal(t, 200, r.Points)
}

func TestScoreMultipleWrongSelectionIsZero(t *testing.T) {
	q := domain.Question{Correct: []int{0, 1, 2}, TimeLimit: 20, Kind: domain.KindMultiple}
	r := scoring.Score(q, []int{0, 3}, 0)
	assert.False(t, r.Correct)
	assert.Equal(t, 0, r.Points)
}

func TestScoreMultipleEmptySelectionIsZero(t *testing.T) {
	r := scoring.Score(multiChoice(), nil, 0)
	assert.False(t, r.Correct)
	assert.Equal(t, 0, r.Points)
}

func TestScoreMonotonicInTime(t *testing.T) {
	e1 := scoring.Score(singleChoice(), []int{1}, 2*time.Second)
	e2 := scoring.Score(singleChoice(), []int{1}, 12*time.Second)
	assert.GreaterOrEqual(t, e1.Points, e2.Points)
}
