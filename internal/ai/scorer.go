package ai

import (
	"context"
	"strconv"
	"strings"
	"time"

	"todo-ai-backend/internal/logger"
	"todo-ai-backend/internal/metrics"
)

const (
	// networkFallbackScore is returned when the model cannot be reached
	// at all: degrade to "lowest urgency" rather than over-urge.
	networkFallbackScore = 1

	// parseFallbackScore is the neutral default for replies that carry
	// no usable number.
	parseFallbackScore = 3
)

// TaskInput is the core's view of one task. Priority 0 means unscored.
type TaskInput struct {
	Text      string
	DueDate   *time.Time
	Completed bool
	Priority  int
}

// Service bundles the scorer, the distributor and the summary builder on
// top of one shared Generator. A nil generator marks the model hard-down:
// every operation then serves its deterministic fallback without I/O.
type Service struct {
	gen   Generator
	pause time.Duration
	sleep func(context.Context, time.Duration)
	now   func() time.Time
}

func NewService(gen Generator) *Service {
	return &Service{
		gen:   gen,
		pause: scorePause,
		sleep: sleepCtx,
		now:   time.Now,
	}
}

// ScoreTask computes a priority in [1,5] for one task. It never fails:
// unreachable model -> 1, unparsable reply -> 3.
func (s *Service) ScoreTask(ctx context.Context, text string, due *time.Time) int {
	if s.gen == nil || strings.TrimSpace(text) == "" {
		return networkFallbackScore
	}

	prompt := BuildPriorityPrompt(text, due, s.now())

	reply, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		logger.L().Warn("priority scoring failed", "err", err)
		metrics.ScoreFallbacks.WithLabelValues("network").Inc()
		return networkFallbackScore
	}

	return clampScore(reply)
}

// clampScore turns a free-form reply into an integer in [1,5].
// A reply of "0" maps to the neutral default, not to 1; negative values
// clamp to 1. Matches the established endpoint behavior.
func clampScore(reply string) int {
	n, ok := leadingInt(strings.TrimSpace(reply))
	if !ok || n == 0 {
		metrics.ScoreFallbacks.WithLabelValues("parse").Inc()
		return parseFallbackScore
	}
	if n < 1 {
		return 1
	}
	if n > 5 {
		return 5
	}
	return n
}

// leadingInt parses an optionally signed integer prefix, ignoring any
// trailing prose ("4 because it is urgent" -> 4).
func leadingInt(s string) (int, bool) {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return 0, false
	}

	digits := s[:i]
	// anything this long is out of range either way
	if i-start > 9 {
		digits = s[:start+9]
	}

	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}
