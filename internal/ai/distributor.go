package ai

import (
	"context"
	"sort"
	"time"
)

// scorePause is the fixed wait between consecutive model calls inside one
// batch. Rate-limit requirement, not a tuning knob.
const scorePause = 100 * time.Millisecond

// DistributePriorities returns one final priority in [1,5] per input task,
// in input order. For N <= 5 all priorities are pairwise distinct; for
// N > 5 ranked tasks are spread over buckets so higher raw scores never
// land below lower ones. It never fails: with the model hard-down it
// returns the fallback sequence without any calls.
func (s *Service) DistributePriorities(ctx context.Context, tasks []TaskInput) []int {
	n := len(tasks)
	if n == 0 {
		return []int{}
	}
	if s.gen == nil {
		return FallbackPriorities(n)
	}

	// Raw scores, strictly sequential: the pause between calls is what
	// keeps a batch under the external rate limit.
	raw := make([]int, n)
	for i, t := range tasks {
		if i > 0 {
			s.sleep(ctx, s.pause)
		}
		raw[i] = s.ScoreTask(ctx, t.Text, t.DueDate)
	}

	return distribute(raw)
}

// distribute rewrites raw scores into final priorities. The sort is
// stable, so equal raw scores keep input order and the result is
// deterministic for identical inputs.
func distribute(raw []int) []int {
	n := len(raw)

	ranked := make([]int, n)
	for i := range ranked {
		ranked[i] = i
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return raw[ranked[a]] > raw[ranked[b]]
	})

	out := make([]int, n)
	if n <= 5 {
		// small list: forced-unique 5,4,3,... regardless of raw spread
		for rank, i := range ranked {
			out[i] = 5 - rank
		}
		return out
	}

	bucket := (n + 4) / 5 // ceil(n/5)
	for rank, i := range ranked {
		p := 5 - rank/bucket
		if p < 1 {
			p = 1
		}
		out[i] = p
	}
	return out
}

// FallbackPriorities is the no-model assignment: 5,4,3,2,1 truncated for
// short lists, cycled for longer ones.
func FallbackPriorities(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = 5 - i%5
	}
	return out
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
