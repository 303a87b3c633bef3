// internal/clients/textgen/client.go

// Package textgen calls an OpenAI-style chat-completions endpoint and
// returns the raw model text together with the finish reason. It never
// parses the model output; that is the normalizer's job.
package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"workout-service/internal/common/config"
	apperrors "workout-service/internal/common/errors"
	"workout-service/internal/common/logger"
)

const (
	// FinishReasonLength marks an output cut off at the token ceiling.
	FinishReasonLength = "length"
	FinishReasonStop   = "stop"
)

// Completion is the raw result of one generation call.
type Completion struct {
	Text             string
	FinishReason     string
	PromptTokens     int
	CompletionTokens int
}

// Client talks to the text-generation API.
type Client struct {
	cfg    config.TextGenConfig
	client *http.Client
	logger logger.Logger
}

func NewClient(cfg config.TextGenConfig, log logger.Logger) *Client {
	return &Client{
		cfg: cfg,
		client: &http.Client{
			// No client timeout, rely only on the request context.
		},
		logger: log.With(map[string]interface{}{
			"component": "textgen",
		}),
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Generate sends the prompt and returns the completion. Transient failures
// are retried with exponential backoff inside the caller's context budget;
// rate-limit and credential failures surface immediately as typed errors.
func (c *Client) Generate(ctx context.Context, prompt string) (*Completion, error) {
	if c.cfg.APIKey == "" {
		return nil, apperrors.NewConfigurationError("textgen API key is not set")
	}

	reqBody := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a certified personal trainer. Reply with JSON only."},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}
	body, _ := json.Marshal(reqBody)

	ctx, cancel := context.WithTimeout(ctx, config.GetDuration(c.cfg.Timeout))
	defer cancel()

	var lastErr error

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, apperrors.NewTimeoutError("textgen")
			}
		}

		completion, retryable, err := c.doRequest(ctx, body)
		if err == nil {
			return completion, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, apperrors.NewTimeoutError("textgen")
		}
	}

	if ctx.Err() == context.DeadlineExceeded {
		return nil, apperrors.NewTimeoutError("textgen")
	}
	return nil, lastErr
}

// doRequest performs one attempt. The second return value reports whether
// the failure is worth retrying.
func (c *Client) doRequest(ctx context.Context, body []byte) (*Completion, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return nil, false, apperrors.NewInternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, apperrors.NewTimeoutError("textgen")
		}
		return nil, true, apperrors.NewNetworkError("textgen", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, false, apperrors.NewRateLimitedError(retryAfterOf(resp))
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, false, apperrors.NewConfigurationError(fmt.Sprintf("textgen rejected credentials (status %d)", resp.StatusCode))
	case resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body)
		return nil, true, apperrors.NewNetworkError("textgen", fmt.Errorf("status %d", resp.StatusCode))
	default:
		io.Copy(io.Discard, resp.Body)
		return nil, false, apperrors.NewInternalError(fmt.Errorf("textgen unexpected status %d", resp.StatusCode))
	}

	var apiResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, true, apperrors.NewNetworkError("textgen", fmt.Errorf("decode response: %w", err))
	}

	if len(apiResp.Choices) == 0 {
		return nil, false, apperrors.NewEmptyResponseError()
	}

	choice := apiResp.Choices[0]
	c.logger.Debug("completion received", map[string]interface{}{
		"finishReason":     choice.FinishReason,
		"completionTokens": apiResp.Usage.CompletionTokens,
	})

	return &Completion{
		Text:             choice.Message.Content,
		FinishReason:     choice.FinishReason,
		PromptTokens:     apiResp.Usage.PromptTokens,
		CompletionTokens: apiResp.Usage.CompletionTokens,
	}, false, nil
}

func retryAfterOf(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return time.Minute
}
