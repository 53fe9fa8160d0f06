package ai

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGen is a scripted Generator. With err set every call fails; otherwise
// replies are consumed in order, repeating the last one.
type stubGen struct {
	replies []string
	err     error
	calls   int
	prompts []string
}

func (g *stubGen) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls++
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	i := g.calls - 1
	if i >= len(g.replies) {
		i = len(g.replies) - 1
	}
	return g.replies[i], nil
}

var errDown = fmt.Errorf("%w: connection refused", ErrModelUnavailable)

func newTestService(gen Generator) *Service {
	s := NewService(gen)
	s.pause = 0 // no rate-limit pauses in tests
	s.now = func() time.Time {
		return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	}
	return s
}

func TestScoreTask_ParsesReply(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  int
	}{
		{"plain number", "4", 4},
		{"whitespace around", "  5  ", 5},
		{"trailing prose", "2 because it can wait", 2},
		{"above range clamps", "7", 5},
		{"huge clamps", "99999999999999999999", 5},
		{"negative clamps to one", "-2", 1},
		{"zero maps to neutral default", "0", 3},
		{"non-numeric", "banana", 3},
		{"empty reply", "", 3},
		{"punctuation only", "?!", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&stubGen{replies: []string{tt.reply}})
			got := svc.ScoreTask(context.Background(), "File taxes", nil)
			assert.Equal(t, tt.want, got)
		})
	}
}

// The two fallbacks are deliberately different values.
func TestScoreTask_FallbacksAreDistinct(t *testing.T) {
	down := newTestService(&stubGen{err: errDown})
	assert.Equal(t, 1, down.ScoreTask(context.Background(), "File taxes", nil))

	garbled := newTestService(&stubGen{replies: []string{"banana"}})
	assert.Equal(t, 3, garbled.ScoreTask(context.Background(), "File taxes", nil))
}

func TestScoreTask_AlwaysInRange(t *testing.T) {
	replies := []string{"1", "5", "0", "-100", "1000", "", "three", "4.9", "ok 2"}
	for _, reply := range replies {
		svc := newTestService(&stubGen{replies: []string{reply}})
		got := svc.ScoreTask(context.Background(), "anything", nil)
		assert.GreaterOrEqual(t, got, 1, "reply %q", reply)
		assert.LessOrEqual(t, got, 5, "reply %q", reply)
	}
}

func TestScoreTask_EmptyTextSkipsModel(t *testing.T) {
	gen := &stubGen{replies: []string{"5"}}
	svc := newTestService(gen)

	got := svc.ScoreTask(context.Background(), "   ", nil)

	assert.Equal(t, 1, got)
	assert.Zero(t, gen.calls)
}

func TestScoreTask_PromptContents(t *testing.T) {
	gen := &stubGen{replies: []string{"3"}}
	svc := newTestService(gen)

	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	svc.ScoreTask(context.Background(), "File taxes", &due)

	require.Len(t, gen.prompts, 1)
	prompt := gen.prompts[0]
	assert.Contains(t, prompt, `Task: "File taxes"`)
	assert.Contains(t, prompt, "Due Date: 2026-09-15")
	assert.Contains(t, prompt, "Today's Date: 2026-09-01")
	assert.Contains(t, prompt, "ONLY a number from 1-5")
}

func TestScoreTask_NoDueDateLiteral(t *testing.T) {
	gen := &stubGen{replies: []string{"3"}}
	svc := newTestService(gen)

	svc.ScoreTask(context.Background(), "Water plants", nil)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Due Date: No due date")
	assert.False(t, strings.Contains(gen.prompts[0], "Due Date: 0001"))
}
