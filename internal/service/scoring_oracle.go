package service

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// ScoringOracle grades one open-form response against its prompt. The
// primary path delegates to the judgment capability; whenever that is
// absent, fails, or returns nothing parseable, a deterministic length
// heuristic takes over. Score never fails and always returns an integer in
// [0, maxScore].
type ScoringOracle interface {
	Score(ctx context.Context, prompt, response string, maxScore int) int
}

type scoringOracle struct {
	judgment JudgmentService
}

func NewScoringOracle(judgment JudgmentService) ScoringOracle {
	return &scoringOracle{judgment: judgment}
}

var numericToken = regexp.MustCompile(`\d+(\.\d+)?`)

func (o *scoringOracle) Score(ctx context.Context, prompt, response string, maxScore int) int {
	if maxScore <= 0 {
		return 0
	}
	trimmed := strings.TrimSpace(response)
	if trimmed == "" {
		return 0
	}

	if !o.judgment.Available() {
		return fallbackScore(trimmed, maxScore)
	}

	scoringPrompt := fmt.Sprintf(
		"Evaluate this response.\nPrompt: %s\nResponse: %s\nGive integer score ONLY between 0 and %d.",
		prompt, trimmed, maxScore)

	reply, err := o.judgment.Complete(ctx, scoringPrompt)
	if err != nil {
		log.Warn().Err(err).Msg("Judgment scoring failed, using fallback heuristic")
		return fallbackScore(trimmed, maxScore)
	}

	token := numericToken.FindString(reply)
	if token == "" {
		log.Warn().Str("reply", reply).Msg("No numeric token in judgment reply, using fallback heuristic")
		return fallbackScore(trimmed, maxScore)
	}
	parsed, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return fallbackScore(trimmed, maxScore)
	}

	score := int(math.Round(parsed))
	if score < 0 {
		score = 0
	}
	if score > maxScore {
		score = maxScore
	}
	return score
}

// fallbackScore is a monotonic step function of answer length: nothing of
// substance scores zero, longer answers step up to 80% of the ceiling.
func fallbackScore(trimmed string, maxScore int) int {
	switch n := len(trimmed); {
	case n < 10:
		return 0
	case n < 50:
		return maxScore / 2
	case n < 150:
		return maxScore * 7 / 10
	default:
		return maxScore * 8 / 10
	}
}
