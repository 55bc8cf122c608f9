package handler_test

import (
	"fmt"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leca/prompt-studio/internal/model"
	"github.com/leca/prompt-studio/internal/provider"
)

func TestGenerate_Success(t *testing.T) {
	env := newTestEnv(t)

	resp := doJSON(t, "POST", env.ts.URL+"/v1/generate", map[string]interface{}{
		"prompt": "a red bicycle",
		"width":  4,
		"height": 4,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var rec model.ImageRecord
	decodeData(t, resp, &rec)
	assert.NotZero(t, rec.ID)
	assert.Equal(t, "a red bicycle", rec.Prompt)
	assert.Equal(t, "openai", rec.Provider)
	assert.Equal(t, 4, rec.Width)
	assert.Equal(t, 4, rec.Height)
	assert.Equal(t, 1, env.gen.calls)

	// The image landed on disk and in the catalog.
	_, err := os.Stat(rec.Filepath)
	require.NoError(t, err)
	stored, err := env.db.GetRecord(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Filepath, stored.Filepath)
}

func TestGenerate_RequiresPrompt(t *testing.T) {
	env := newTestEnv(t)

	resp := doJSON(t, "POST", env.ts.URL+"/v1/generate", map[string]interface{}{
		"prompt": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_, msg := decodeError(t, resp)
	assert.Contains(t, msg, "prompt")
	assert.Equal(t, 0, env.gen.calls)
}

func TestGenerate_MissingAPIKey(t *testing.T) {
	env := newTestEnv(t)
	env.gen.err = provider.ErrAPIKeyRequired

	resp := doJSON(t, "POST", env.ts.URL+"/v1/generate", map[string]interface{}{
		"prompt": "a red bicycle",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	_, msg := decodeError(t, resp)
	assert.Contains(t, msg, "key")
}

func TestGenerate_UnknownProvider(t *testing.T) {
	env := newTestEnv(t)
	env.gen.err = fmt.Errorf("%w: %q", provider.ErrUnknownProvider, "dalle")

	resp := doJSON(t, "POST", env.ts.URL+"/v1/generate", map[string]interface{}{
		"prompt": "a red bicycle",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestGenerate_AttemptsExhausted(t *testing.T) {
	env := newTestEnv(t)
	env.gen.err = fmt.Errorf("%w (3 attempts): boom", provider.ErrAttemptsExhausted)

	resp := doJSON(t, "POST", env.ts.URL+"/v1/generate", map[string]interface{}{
		"prompt": "a red bicycle",
	})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	// Nothing was recorded for the failed call.
	records, err := env.db.ListRecent(10)
	require.NoError(t, err)
	assert.Empty(t, records)
}
