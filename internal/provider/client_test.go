package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leca/prompt-studio/internal/config"
	"github.com/leca/prompt-studio/internal/model"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newTestSettings(t *testing.T, set config.Settings) *config.Store {
	t.Helper()
	store, err := config.OpenStore(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)
	require.NoError(t, store.Update(set))
	return store
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func testPNGBase64(t *testing.T, w, h int) string {
	t.Helper()
	return base64.StdEncoding.EncodeToString(testPNG(t, w, h))
}

// fakeProvider counts calls and fails a configured number of times before
// succeeding.
type fakeProvider struct {
	calls    int
	failures int
	img      image.Image
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Generate(ctx context.Context, req model.GenerationRequest) (image.Image, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("boom")
	}
	return f.img, nil
}

func newTestClient(t *testing.T, set config.Settings, p Provider) (*Client, *[]time.Duration) {
	t.Helper()
	c := NewClient(newTestSettings(t, set))
	sleeps := &[]time.Duration{}
	c.sleep = func(d time.Duration) { *sleeps = append(*sleeps, d) }
	if p != nil {
		c.resolve = func(name, key string) (Provider, error) { return p, nil }
	}
	return c, sleeps
}

// ---------------------------------------------------------------------------
// Dispatch and retry policy
// ---------------------------------------------------------------------------

func TestGenerate_MissingKeyFailsImmediately(t *testing.T) {
	fake := &fakeProvider{}
	c, sleeps := newTestClient(t, config.Settings{APIProvider: "openai"}, fake)

	img, err := c.Generate(context.Background(), model.GenerationRequest{Prompt: "x"})
	assert.ErrorIs(t, err, ErrAPIKeyRequired)
	assert.Nil(t, img)
	assert.Zero(t, fake.calls)
	assert.Empty(t, *sleeps)
}

func TestGenerate_UnknownProviderFailsImmediately(t *testing.T) {
	c, sleeps := newTestClient(t, config.Settings{APIKey: "k", APIProvider: "midjourney"}, nil)

	img, err := c.Generate(context.Background(), model.GenerationRequest{Prompt: "x"})
	assert.ErrorIs(t, err, ErrUnknownProvider)
	assert.Nil(t, img)
	assert.Empty(t, *sleeps)
}

func TestGenerate_ProviderIdentifierIsCaseInsensitive(t *testing.T) {
	c, _ := newTestClient(t, config.Settings{APIKey: "k", APIProvider: "OpenAI"}, nil)

	resolved := ""
	c.resolve = func(name, key string) (Provider, error) {
		resolved = name
		return &fakeProvider{img: image.NewNRGBA(image.Rect(0, 0, 1, 1))}, nil
	}

	_, err := c.Generate(context.Background(), model.GenerationRequest{Prompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, "openai", resolved)
}

func TestGenerate_FirstAttemptSuccessNoRetries(t *testing.T) {
	want := image.NewNRGBA(image.Rect(0, 0, 512, 512))
	fake := &fakeProvider{img: want}
	c, sleeps := newTestClient(t, config.Settings{APIKey: "k", APIProvider: "openai"}, fake)

	img, err := c.Generate(context.Background(), model.GenerationRequest{
		Prompt: "a red bicycle", Width: 512, Height: 512,
	})
	require.NoError(t, err)
	assert.Equal(t, 512, img.Bounds().Dx())
	assert.Equal(t, 512, img.Bounds().Dy())
	assert.Equal(t, 1, fake.calls)
	assert.Empty(t, *sleeps)
}

func TestGenerate_RetriesWithDoublingBackoff(t *testing.T) {
	fake := &fakeProvider{failures: 2, img: image.NewNRGBA(image.Rect(0, 0, 1, 1))}
	c, sleeps := newTestClient(t, config.Settings{APIKey: "k", APIProvider: "openai"}, fake)

	img, err := c.Generate(context.Background(), model.GenerationRequest{Prompt: "x"})
	require.NoError(t, err)
	assert.NotNil(t, img)
	assert.Equal(t, 3, fake.calls)
	assert.Equal(t, []time.Duration{baseRetryDelay, 2 * baseRetryDelay}, *sleeps)
}

func TestGenerate_ExhaustedBudgetIsTerminal(t *testing.T) {
	fake := &fakeProvider{failures: 99}
	c, sleeps := newTestClient(t, config.Settings{APIKey: "k", APIProvider: "openai"}, fake)

	img, err := c.Generate(context.Background(), model.GenerationRequest{Prompt: "x"})
	assert.ErrorIs(t, err, ErrAttemptsExhausted)
	assert.Nil(t, img)

	// Exactly 3 attempts, a sleep after the first and second failure, none
	// after the third.
	assert.Equal(t, 3, fake.calls)
	assert.Equal(t, []time.Duration{baseRetryDelay, 2 * baseRetryDelay}, *sleeps)
}
