package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"PinFlow/internal/domain"
)

const (
	openAIName            = "openai"
	defaultOpenAIEndpoint = "https://api.openai.com/v1/images/generations"
	openAIModel           = "dall-e-3"
)

// OpenAIClient generates images through the DALL-E API.
type OpenAIClient struct {
	endpoint   string
	apiKey     string
	store      *ArtifactStore
	httpClient *http.Client
}

var _ Provider = (*OpenAIClient)(nil)

// NewOpenAIClient builds a client for the images endpoint.
func NewOpenAIClient(apiKey string, store *ArtifactStore) *OpenAIClient {
	return &OpenAIClient{
		endpoint: defaultOpenAIEndpoint,
		apiKey:   apiKey,
		store:    store,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// Name identifies the provider in the registry.
func (c *OpenAIClient) Name() string { return openAIName }

// Generate requests one hd image and stores the returned artifact.
func (c *OpenAIClient) Generate(ctx context.Context, prompt, style string, width, height int) (domain.Artifact, error) {
	if c.apiKey == "" {
		return domain.Artifact{}, fmt.Errorf("openai client misconfigured")
	}

	enhanced := enhancePrompt(prompt, style)
	body, err := json.Marshal(map[string]any{
		"model":           openAIModel,
		"prompt":          enhanced,
		"size":            dalleSize(width, height),
		"quality":         "hd",
		"n":               1,
		"response_format": "b64_json",
	})
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.Artifact{}, fmt.Errorf("openai error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var result struct {
		Data []struct {
			B64JSON string `json:"b64_json"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return domain.Artifact{}, fmt.Errorf("decode response: %w", err)
	}
	if len(result.Data) == 0 {
		return domain.Artifact{}, fmt.Errorf("openai returned no images")
	}

	path, err := c.store.SaveBase64PNG(result.Data[0].B64JSON)
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("store artifact: %w", err)
	}

	return domain.Artifact{
		Path:     path,
		Provider: openAIName,
		Prompt:   enhanced,
		Width:    width,
		Height:   height,
	}, nil
}

// dalleSize snaps requested dimensions to the closest DALL-E 3 size.
func dalleSize(width, height int) string {
	ratio := float64(width) / float64(height)
	switch {
	case ratio > 1.5:
		return "1792x1024"
	case ratio < 0.7:
		return "1024x1792"
	default:
		return "1024x1024"
	}
}
