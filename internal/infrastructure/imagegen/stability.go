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
	stabilityName            = "stability"
	defaultStabilityEndpoint = "https://api.stability.ai/v1/generation/stable-diffusion-xl-1024-v1-0/text-to-image"
)

// StabilityClient generates images through the Stability AI API.
type StabilityClient struct {
	endpoint   string
	apiKey     string
	store      *ArtifactStore
	httpClient *http.Client
}

var _ Provider = (*StabilityClient)(nil)

// NewStabilityClient builds a client for the text-to-image endpoint.
func NewStabilityClient(apiKey string, store *ArtifactStore) *StabilityClient {
	return &StabilityClient{
		endpoint: defaultStabilityEndpoint,
		apiKey:   apiKey,
		store:    store,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// Name identifies the provider in the registry.
func (c *StabilityClient) Name() string { return stabilityName }

// Generate requests one sample and stores the returned artifact.
func (c *StabilityClient) Generate(ctx context.Context, prompt, style string, width, height int) (domain.Artifact, error) {
	if c.apiKey == "" {
		return domain.Artifact{}, fmt.Errorf("stability client misconfigured")
	}

	enhanced := enhancePrompt(prompt, style)
	body, err := json.Marshal(map[string]any{
		"text_prompts": []map[string]any{
			{"text": enhanced, "weight": 1},
		},
		"cfg_scale":    7,
		"height":       height,
		"width":        width,
		"samples":      1,
		"steps":        30,
		"style_preset": "photographic",
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
		return domain.Artifact{}, fmt.Errorf("stability error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var result struct {
		Artifacts []struct {
			Base64 string `json:"base64"`
		} `json:"artifacts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return domain.Artifact{}, fmt.Errorf("decode response: %w", err)
	}
	if len(result.Artifacts) == 0 {
		return domain.Artifact{}, fmt.Errorf("stability returned no artifacts")
	}

	path, err := c.store.SaveBase64PNG(result.Artifacts[0].Base64)
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("store artifact: %w", err)
	}

	return domain.Artifact{
		Path:     path,
		Provider: stabilityName,
		Prompt:   enhanced,
		Width:    width,
		Height:   height,
	}, nil
}
