// Package completion calls the downstream text-completion provider with a
// bounded deadline and a single retry.
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vrclassroom/mentor-gateway/internal/config"
	"github.com/vrclassroom/mentor-gateway/internal/httputil"
	"github.com/vrclassroom/mentor-gateway/internal/telemetry"
)

// systemPrompt is the fixed instructional preamble sent ahead of every
// question. It keeps answers short, beginner-friendly, and on topic.
const systemPrompt = "You are a friendly teaching assistant inside a VR classroom. " +
	"Answer in two or three short sentences a beginner can follow, about virtual reality, " +
	"XR development, and how the classroom works. If a question is about something else, " +
	"briefly steer the student back to VR topics."

// FallbackAnswer is returned when the provider produces no usable text.
// This is a successful outcome, not an error.
const FallbackAnswer = "Hmm, I couldn't come up with an answer for that. Could you try rephrasing your question?"

// Client issues completion calls to an OpenAI-compatible provider.
type Client struct {
	cfg     config.ProviderConfig
	client  *http.Client
	metrics *telemetry.Metrics
}

// NewClient builds a provider client with a pooled transport. The HTTP client
// itself carries no timeout; the per-operation deadline in Ask governs both
// attempts.
func NewClient(cfg config.ProviderConfig, metrics *telemetry.Metrics) *Client {
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				ForceAttemptHTTP2:   true,
			},
		},
		metrics: metrics,
	}
}

// Ask sends the question downstream and returns the answer text. One deadline
// of cfg.Timeout covers the entire operation: if the first attempt fails for
// any reason, exactly one more attempt runs under the same remaining budget —
// no fresh timer, no backoff. Deadline expiry aborts the in-flight call and
// fails the operation with an upstream-tagged error.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var lastErr error
	for attempt := 1; attempt <= 2; attempt++ {
		text, err := c.complete(ctx, question)
		if err == nil {
			if attempt > 1 {
				c.record("retried")
			} else {
				c.record("ok")
			}
			if text == "" {
				c.record("fallback")
				return FallbackAnswer, nil
			}
			return text, nil
		}
		lastErr = err
		slog.Warn("completion attempt failed", "attempt", attempt, "error", err)
		if ctx.Err() != nil {
			c.record("timeout")
			return "", httputil.Upstream("completion provider timed out")
		}
	}

	c.record("error")
	slog.Error("completion failed after retry", "error", lastErr)
	return "", httputil.Upstream("completion provider unavailable")
}

func (c *Client) record(outcome string) {
	if c.metrics != nil {
		c.metrics.RecordUpstreamAttempt(outcome)
	}
}

func (c *Client) complete(ctx context.Context, question string) (string, error) {
	body := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: question},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	url := c.cfg.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send completion request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read completion response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}
