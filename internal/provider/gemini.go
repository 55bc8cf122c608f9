package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/leca/prompt-studio/internal/model"
)

const geminiDefaultBaseURL = "https://generativelanguage.googleapis.com/v1"

// Gemini generates images through the generateContent endpoint. The service
// only supports three fixed output sizes, so the requested size is snapped
// to square, portrait or landscape before the call. Authentication is a
// URL-embedded key rather than a bearer header.
type Gemini struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewGemini(apiKey, baseURL string, httpClient *http.Client) *Gemini {
	if baseURL == "" {
		baseURL = geminiDefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Gemini{apiKey: apiKey, baseURL: baseURL, httpClient: httpClient}
}

func (p *Gemini) Name() string { return "gemini" }

// snapGeminiSize maps the requested dimensions onto the nearest supported
// fixed size by comparing width against height.
func snapGeminiSize(w, h int) (int, int) {
	switch {
	case w == h:
		return 1024, 1024
	case w < h:
		return 1024, 1792
	default:
		return 1792, 1024
	}
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"topP"`
	TopK        int     `json:"topK"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generation_config"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (p *Gemini) Generate(ctx context.Context, req model.GenerationRequest) (image.Image, error) {
	w, h := snapGeminiSize(req.Width, req.Height)
	if w != req.Width || h != req.Height {
		slog.Debug("snapped size to supported gemini dimensions",
			"requested_width", req.Width, "requested_height", req.Height,
			"width", w, "height", h)
	}

	apiReq := geminiRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{{
				Text: "Generate an image based on this description: " + req.Prompt,
			}},
		}},
		GenerationConfig: geminiGenerationConfig{
			Temperature: 0.7,
			TopP:        0.95,
			TopK:        40,
		},
	}

	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, fmt.Errorf("gemini: marshal request: %w", err)
	}

	url := p.baseURL + "/models/gemini-1.5-flash:generateContent?key=" + p.apiKey
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gemini: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gemini: send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gemini: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini: request failed with status %d: %s",
			resp.StatusCode, truncate(string(respBody), 200))
	}

	var apiResp geminiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("gemini: parse response: %w", err)
	}

	// The image can appear in any candidate part; take the first inline blob
	// with an image mime type.
	for _, candidate := range apiResp.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData == nil {
				continue
			}
			if !strings.HasPrefix(part.InlineData.MimeType, "image/") {
				continue
			}
			img, err := decodeBase64Image(part.InlineData.Data)
			if err != nil {
				return nil, fmt.Errorf("gemini: %w", err)
			}
			return img, nil
		}
	}

	return nil, fmt.Errorf("gemini: %w", ErrNoImagePayload)
}

var _ Provider = (*Gemini)(nil)
