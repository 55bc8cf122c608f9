package provider

import (
	"context"
	"fmt"
	"image"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/leca/prompt-studio/internal/model"
)

// OpenAI generates images through the OpenAI images endpoint. The requested
// size is passed through as a "WxH" string and the image comes back inline
// as base64.
type OpenAI struct {
	client *openai.Client
}

// NewOpenAI builds the adapter. baseURL and httpClient are optional; tests
// point baseURL at a local server.
func NewOpenAI(apiKey, baseURL string, httpClient *http.Client) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &OpenAI{client: openai.NewClientWithConfig(cfg)}
}

func (p *OpenAI) Name() string { return "openai" }

func (p *OpenAI) Generate(ctx context.Context, req model.GenerationRequest) (image.Image, error) {
	resp, err := p.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         req.Prompt,
		Size:           fmt.Sprintf("%dx%d", req.Width, req.Height),
		N:              1,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}

	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, fmt.Errorf("openai: %w", ErrNoImagePayload)
	}

	img, err := decodeBase64Image(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	return img, nil
}

var _ Provider = (*OpenAI)(nil)
