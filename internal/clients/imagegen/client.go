// internal/clients/imagegen/client.go

// Package imagegen calls an image-generation endpoint to produce exercise
// illustrations. The client is safe for concurrent use; the normalizer fans
// out one call per exercise.
package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"workout-service/internal/common/config"
	apperrors "workout-service/internal/common/errors"
	"workout-service/internal/common/logger"
)

// ErrContentPolicy marks a prompt the upstream refused on safety grounds.
// Callers retry with a remapped or generic exercise name.
type ContentPolicyError struct {
	Prompt string
}

func (e *ContentPolicyError) Error() string {
	return fmt.Sprintf("image prompt rejected by content policy: %s", e.Prompt)
}

// Client talks to the image-generation API.
type Client struct {
	cfg    config.ImageGenConfig
	client *http.Client
	logger logger.Logger
}

func NewClient(cfg config.ImageGenConfig, log logger.Logger) *Client {
	return &Client{
		cfg: cfg,
		client: &http.Client{
			// No client timeout, rely only on the request context.
		},
		logger: log.With(map[string]interface{}{
			"component": "imagegen",
		}),
	}
}

type imageRequest struct {
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
}

type imageResponse struct {
	Data []struct {
		URL     string `json:"url"`
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate produces one illustration for the prompt and returns either a
// data: URI (inline payload) or the upstream URL, whichever the API gave.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", apperrors.NewConfigurationError("imagegen API key is not set")
	}

	ctx, cancel := context.WithTimeout(ctx, config.GetDuration(c.cfg.Timeout))
	defer cancel()

	body, _ := json.Marshal(imageRequest{
		Prompt:         prompt,
		N:              1,
		Size:           c.cfg.Size,
		ResponseFormat: "b64_json",
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/images/generations", bytes.NewBuffer(body))
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", apperrors.NewTimeoutError("imagegen")
		}
		return "", apperrors.NewNetworkError("imagegen", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest {
		var apiResp imageResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiResp); err == nil {
			if strings.Contains(apiResp.Error.Code, "content_policy") ||
				strings.Contains(strings.ToLower(apiResp.Error.Message), "content policy") ||
				strings.Contains(strings.ToLower(apiResp.Error.Message), "safety") {
				return "", &ContentPolicyError{Prompt: prompt}
			}
		}
		return "", apperrors.NewInternalError(fmt.Errorf("imagegen rejected request"))
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", apperrors.NewConfigurationError(fmt.Sprintf("imagegen rejected credentials (status %d)", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", apperrors.NewNetworkError("imagegen", fmt.Errorf("status %d", resp.StatusCode))
	}

	var apiResp imageResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", apperrors.NewNetworkError("imagegen", fmt.Errorf("decode response: %w", err))
	}
	if len(apiResp.Data) == 0 {
		return "", apperrors.NewEmptyResponseError()
	}

	item := apiResp.Data[0]
	if item.B64JSON != "" {
		return "data:image/png;base64," + item.B64JSON, nil
	}
	return item.URL, nil
}
