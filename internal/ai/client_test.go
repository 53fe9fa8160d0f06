package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geminiReply(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*GeminiClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewGeminiClient("test-key", "gemini-pro")
	c.BaseURL = srv.URL
	return c, srv
}

func TestGenerate_Success(t *testing.T) {
	var gotPath, gotKey string
	var gotBody generateRequest

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(geminiReply("  4  "))
	})

	text, err := c.Generate(context.Background(), "score this")

	require.NoError(t, err)
	assert.Equal(t, "4", text, "reply must come back trimmed")
	assert.Equal(t, "/models/gemini-pro:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	require.Len(t, gotBody.Contents, 1)
	require.Len(t, gotBody.Contents[0].Parts, 1)
	assert.Equal(t, "score this", gotBody.Contents[0].Parts[0].Text)
}

func TestGenerate_NonSuccessStatus(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "quota exceeded"}`, http.StatusTooManyRequests)
	})

	_, err := c.Generate(context.Background(), "score this")

	require.ErrorIs(t, err, ErrModelUnavailable)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestGenerate_EmptyReply(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	})

	_, err := c.Generate(context.Background(), "score this")
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestGenerate_WhitespaceOnlyReply(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(geminiReply("   \n  "))
	})

	_, err := c.Generate(context.Background(), "score this")
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestGenerate_NetworkError(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close() // connection refused from here on

	_, err := c.Generate(context.Background(), "score this")
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestGenerate_ContextCancelled(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(geminiReply("4"))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Generate(ctx, "score this")
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestGenerate_BadJSON(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})

	_, err := c.Generate(context.Background(), "score this")
	assert.ErrorIs(t, err, ErrModelUnavailable)
}
