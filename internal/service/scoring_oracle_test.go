package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoringOracle_EmptyResponseScoresZero(t *testing.T) {
	oracle := NewScoringOracle(&fakeJudgment{available: true})

	assert.Equal(t, 0, oracle.Score(context.Background(), "prompt", "", 10))
	assert.Equal(t, 0, oracle.Score(context.Background(), "prompt", "   \n\t ", 10))
}

func TestScoringOracle_ParsesJudgmentReply(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		max   int
		want  int
	}{
		{name: "bare integer", reply: "7", max: 10, want: 7},
		{name: "integer with prose", reply: "I would give this a 8 out of 10.", max: 10, want: 8},
		{name: "decimal rounds", reply: "6.6", max: 10, want: 7},
		{name: "above ceiling clamps", reply: "42", max: 10, want: 10},
		{name: "zero", reply: "0", max: 10, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oracle := NewScoringOracle(&fakeJudgment{available: true, completions: []string{tt.reply}})
			got := oracle.Score(context.Background(), "prompt", "a perfectly reasonable answer", tt.max)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScoringOracle_FallbackWhenJudgmentErrors(t *testing.T) {
	oracle := NewScoringOracle(&fakeJudgment{available: true, completeErr: errors.New("quota exceeded")})

	// 500-char response falls into the top length band: 80% of ceiling.
	response := strings.Repeat("a", 500)
	assert.Equal(t, 8, oracle.Score(context.Background(), "prompt", response, 10))
}

func TestScoringOracle_FallbackWhenNoNumericToken(t *testing.T) {
	oracle := NewScoringOracle(&fakeJudgment{available: true, completions: []string{"excellent work, no notes"}})

	response := strings.Repeat("b", 100)
	assert.Equal(t, 7, oracle.Score(context.Background(), "prompt", response, 10))
}

func TestScoringOracle_FallbackLengthBands(t *testing.T) {
	oracle := NewScoringOracle(&fakeJudgment{available: false})
	ctx := context.Background()

	tests := []struct {
		name     string
		response string
		want     int
	}{
		{name: "under 10 chars", response: "short", want: 0},
		{name: "10 to 49 chars", response: strings.Repeat("x", 30), want: 5},
		{name: "50 to 149 chars", response: strings.Repeat("x", 100), want: 7},
		{name: "150 and above", response: strings.Repeat("x", 500), want: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, oracle.Score(ctx, "prompt", tt.response, 10))
		})
	}
}

func TestScoringOracle_FallbackIsMonotonicInLength(t *testing.T) {
	oracle := NewScoringOracle(&fakeJudgment{available: false})
	ctx := context.Background()

	prev := 0
	for _, n := range []int{1, 9, 10, 49, 50, 149, 150, 1000} {
		got := oracle.Score(ctx, "prompt", strings.Repeat("x", n), 10)
		assert.GreaterOrEqual(t, got, prev, "length %d", n)
		prev = got
	}
}

func TestScoringOracle_ScoreStaysWithinBounds(t *testing.T) {
	oracle := NewScoringOracle(&fakeJudgment{available: true, completions: []string{"-3"}})

	// The numeric token regexp drops the sign, so "-3" parses as 3.
	got := oracle.Score(context.Background(), "prompt", "an answer", 5)
	assert.GreaterOrEqual(t, got, 0)
	assert.LessOrEqual(t, got, 5)
}

func TestScoringOracle_NonPositiveCeiling(t *testing.T) {
	oracle := NewScoringOracle(&fakeJudgment{available: false})
	assert.Equal(t, 0, oracle.Score(context.Background(), "prompt", "whatever", 0))
}
