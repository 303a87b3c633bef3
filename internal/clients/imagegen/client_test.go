// internal/clients/imagegen/client_test.go
package imagegen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workout-service/internal/common/config"
	apperrors "workout-service/internal/common/errors"
	"workout-service/internal/common/logger"
)

func testConfig(baseURL string) config.ImageGenConfig {
	return config.ImageGenConfig{
		Enabled: true,
		BaseURL: baseURL,
		APIKey:  "test-key",
		Size:    "512x512",
		Timeout: 5000,
	}
}

func TestGenerateReturnsDataURI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/images/generations", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{{"b64_json": "aGVsbG8="}},
		})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), logger.NewTestLogger(t))
	uri, err := client.Generate(context.Background(), "push-up illustration")

	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", uri)
}

func TestGenerateReturnsURLWhenNoInlinePayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{{"url": "https://img.example/pic.png"}},
		})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), logger.NewTestLogger(t))
	uri, err := client.Generate(context.Background(), "squat illustration")

	require.NoError(t, err)
	assert.Equal(t, "https://img.example/pic.png", uri)
}

func TestGenerateContentPolicyRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{
				"code":    "content_policy_violation",
				"message": "Your request was rejected",
			},
		})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), logger.NewTestLogger(t))
	_, err := client.Generate(context.Background(), "skull crushers")

	require.Error(t, err)
	var policyErr *ContentPolicyError
	assert.ErrorAs(t, err, &policyErr)
}

func TestGenerateMissingAPIKey(t *testing.T) {
	cfg := testConfig("http://unused")
	cfg.APIKey = ""

	client := NewClient(cfg, logger.NewTestLogger(t))
	_, err := client.Generate(context.Background(), "prompt")

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConfiguration, apperrors.CodeOf(err))
}
