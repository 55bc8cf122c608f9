package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"

	"github.com/leca/prompt-studio/internal/model"
)

const stabilityDefaultBaseURL = "https://api.stability.ai/v1"

// Stability generates images through the Stability AI text-to-image
// endpoint. The prompt travels as a weighted list: the positive prompt with
// weight 1.0 and, when present, the negative prompt with weight -1.0.
// Sampling parameters are fixed.
type Stability struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewStability(apiKey, baseURL string, httpClient *http.Client) *Stability {
	if baseURL == "" {
		baseURL = stabilityDefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Stability{apiKey: apiKey, baseURL: baseURL, httpClient: httpClient}
}

func (p *Stability) Name() string { return "stability" }

type stabilityPrompt struct {
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
}

type stabilityRequest struct {
	TextPrompts []stabilityPrompt `json:"text_prompts"`
	Height      int               `json:"height"`
	Width       int               `json:"width"`
	Samples     int               `json:"samples"`
	CfgScale    float64           `json:"cfg_scale"`
	Steps       int               `json:"steps"`
	StylePreset string            `json:"style_preset"`
}

type stabilityResponse struct {
	Artifacts []struct {
		Base64 string `json:"base64"`
	} `json:"artifacts"`
}

func (p *Stability) Generate(ctx context.Context, req model.GenerationRequest) (image.Image, error) {
	apiReq := stabilityRequest{
		TextPrompts: []stabilityPrompt{{Text: req.Prompt, Weight: 1.0}},
		Height:      req.Height,
		Width:       req.Width,
		Samples:     1,
		CfgScale:    7.0,
		Steps:       30,
		StylePreset: "photographic",
	}
	if req.NegativePrompt != "" {
		apiReq.TextPrompts = append(apiReq.TextPrompts,
			stabilityPrompt{Text: req.NegativePrompt, Weight: -1.0})
	}

	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, fmt.Errorf("stability: marshal request: %w", err)
	}

	url := p.baseURL + "/generation/stable-diffusion-xl-1024-v1-0/text-to-image"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("stability: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("stability: send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("stability: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stability: request failed with status %d: %s",
			resp.StatusCode, truncate(string(respBody), 200))
	}

	var apiResp stabilityResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("stability: parse response: %w", err)
	}
	if len(apiResp.Artifacts) == 0 || apiResp.Artifacts[0].Base64 == "" {
		return nil, fmt.Errorf("stability: %w", ErrNoImagePayload)
	}

	img, err := decodeBase64Image(apiResp.Artifacts[0].Base64)
	if err != nil {
		return nil, fmt.Errorf("stability: %w", err)
	}
	return img, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var _ Provider = (*Stability)(nil)
