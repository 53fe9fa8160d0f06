package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"todo-ai-backend/internal/metrics"
)

// Generator is the one contract the rest of the AI layer depends on.
// Everything above it is a deterministic function of the generator's replies.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrModelUnavailable covers network errors, non-2xx responses, cancelled
// calls and replies with no text body.
var ErrModelUnavailable = errors.New("model unavailable")

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient talks to the Gemini generateContent API. It holds no
// per-caller state and is safe for concurrent use.
type GeminiClient struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

func NewGeminiClient(apiKey, model string) *GeminiClient {
	return &GeminiClient{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: defaultBaseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate sends one prompt and returns the trimmed text of the first
// reply candidate. No parsing beyond that happens here.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	metrics.ModelCalls.Inc()

	body, _ := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.BaseURL, c.Model, c.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		metrics.ModelFailures.Inc()
		return "", fmt.Errorf("%w: build request: %v", ErrModelUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		metrics.ModelFailures.Inc()
		return "", fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	defer res.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(res.Body, 1<<20))

	if res.StatusCode != http.StatusOK {
		metrics.ModelFailures.Inc()
		return "", fmt.Errorf("%w: status %d: %s", ErrModelUnavailable, res.StatusCode, snippet(raw))
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		metrics.ModelFailures.Inc()
		return "", fmt.Errorf("%w: decode response: %v", ErrModelUnavailable, err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		metrics.ModelFailures.Inc()
		return "", fmt.Errorf("%w: empty reply", ErrModelUnavailable)
	}

	text := strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		metrics.ModelFailures.Inc()
		return "", fmt.Errorf("%w: empty reply", ErrModelUnavailable)
	}

	return text, nil
}

// snippet keeps error context loggable without dumping whole bodies.
func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
