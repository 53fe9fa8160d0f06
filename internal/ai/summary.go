package ai

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"todo-ai-backend/internal/logger"
	"todo-ai-backend/internal/metrics"
)

const (
	// NoPendingMessage is served without a model call when nothing is pending.
	NoPendingMessage = "No tasks for today. It's a great day to plan ahead!"

	// SummaryFallback is served when the model call fails.
	SummaryFallback = "You have tasks to complete today. Stay focused and tackle them one by one!"

	summaryTaskLimit = 10
)

// DailySummary produces a short motivational paragraph about the pending
// tasks. It never fails to the caller.
func (s *Service) DailySummary(ctx context.Context, tasks []TaskInput) string {
	pending := make([]TaskInput, 0, len(tasks))
	for _, t := range tasks {
		if !t.Completed {
			pending = append(pending, t)
		}
	}
	if len(pending) == 0 {
		return NoPendingMessage
	}

	if s.gen == nil {
		metrics.SummaryFallbacks.Inc()
		return SummaryFallback
	}

	sort.SliceStable(pending, func(a, b int) bool {
		return effectivePriority(pending[a]) > effectivePriority(pending[b])
	})
	if len(pending) > summaryTaskLimit {
		pending = pending[:summaryTaskLimit]
	}

	lines := make([]string, len(pending))
	for i, t := range pending {
		lines[i] = fmt.Sprintf("- %s (Priority: %d, Due: %s)",
			t.Text, effectivePriority(t), renderDueDate(t.DueDate))
	}

	reply, err := s.gen.Generate(ctx, BuildSummaryPrompt(lines, s.now()))
	if err != nil {
		logger.L().Warn("daily summary failed", "err", err)
		metrics.SummaryFallbacks.Inc()
		return SummaryFallback
	}

	return strings.TrimSpace(reply)
}

// effectivePriority treats unscored tasks as the neutral mid-value.
func effectivePriority(t TaskInput) int {
	if t.Priority == 0 {
		return parseFallbackScore
	}
	return t.Priority
}
