// Package provider dispatches image-generation requests to third-party
// text-to-image services. Each service is one adapter behind the Provider
// interface; Client selects an adapter from the current settings and wraps
// the call in a retry loop with exponential backoff.
package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/leca/prompt-studio/internal/model"
)

var (
	// ErrAPIKeyRequired means no API key is configured. Surfaced immediately,
	// no network attempt is made.
	ErrAPIKeyRequired = errors.New("API key is required")

	// ErrUnknownProvider means the configured provider identifier is not
	// recognized. Surfaced immediately, no retry.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrAttemptsExhausted is the terminal failure after the retry budget is
	// spent. The returned image is always nil alongside it.
	ErrAttemptsExhausted = errors.New("generation failed after all attempts")

	// ErrNoImagePayload means the provider responded 2xx but the expected
	// image payload was missing from the body.
	ErrNoImagePayload = errors.New("response is missing an image payload")
)

// Provider generates one image from a prompt. Adapters translate the uniform
// GenerationRequest into their service's wire shape and decode the returned
// payload into an in-memory image. Any failure (network, non-2xx status,
// malformed body, missing payload) is reported as an error; the Client
// treats all adapter errors as retryable.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req model.GenerationRequest) (image.Image, error)
}

// decodeBase64Image decodes a base64 string into an image.
func decodeBase64Image(b64 string) (image.Image, error) {
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("decoding base64 payload: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image bytes: %w", err)
	}
	return img, nil
}
