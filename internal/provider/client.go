package provider

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/leca/prompt-studio/internal/config"
	"github.com/leca/prompt-studio/internal/model"
)

const (
	maxAttempts    = 3
	baseRetryDelay = 2 * time.Second
	requestTimeout = 60 * time.Second
)

// Generator is the capability the rest of the application depends on:
// prompt in, bitmap or terminal failure out.
type Generator interface {
	Generate(ctx context.Context, req model.GenerationRequest) (image.Image, error)
}

// Client dispatches a generation request to the currently configured
// provider with a uniform retry policy: up to maxAttempts attempts, backoff
// doubling from baseRetryDelay between them. Configuration problems (missing
// key, unrecognized provider) fail immediately without touching the network.
// After the budget is exhausted the call returns a nil image with
// ErrAttemptsExhausted; adapter errors never escape individually.
type Client struct {
	settings   *config.Store
	httpClient *http.Client

	// Test seams. resolve maps a provider identifier to an adapter; sleep
	// performs the backoff pause.
	resolve func(name, key string) (Provider, error)
	sleep   func(d time.Duration)
}

func NewClient(settings *config.Store) *Client {
	c := &Client{
		settings:   settings,
		httpClient: &http.Client{Timeout: requestTimeout},
		sleep:      time.Sleep,
	}
	c.resolve = c.defaultResolve
	return c
}

func (c *Client) defaultResolve(name, key string) (Provider, error) {
	switch name {
	case "openai":
		return NewOpenAI(key, "", c.httpClient), nil
	case "stability":
		return NewStability(key, "", c.httpClient), nil
	case "gemini":
		return NewGemini(key, "", c.httpClient), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
}

func (c *Client) Generate(ctx context.Context, req model.GenerationRequest) (image.Image, error) {
	set := c.settings.Current()
	if set.APIKey == "" {
		return nil, ErrAPIKeyRequired
	}

	p, err := c.resolve(strings.ToLower(set.APIProvider), set.APIKey)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		img, err := p.Generate(ctx, req)
		if err == nil {
			if attempt > 1 {
				slog.Info("generation succeeded after retry",
					"provider", p.Name(), "attempt", attempt)
			}
			return img, nil
		}

		lastErr = err
		slog.Warn("generation attempt failed",
			"provider", p.Name(), "attempt", attempt, "max_attempts", maxAttempts,
			"error", err)

		if attempt < maxAttempts {
			delay := baseRetryDelay * (1 << (attempt - 1))
			slog.Info("retrying", "provider", p.Name(), "delay", delay)
			c.sleep(delay)
		}
	}

	return nil, fmt.Errorf("%w (%d attempts): %v", ErrAttemptsExhausted, maxAttempts, lastErr)
}

var _ Generator = (*Client)(nil)
