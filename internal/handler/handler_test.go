package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leca/prompt-studio/internal/config"
	"github.com/leca/prompt-studio/internal/database"
	"github.com/leca/prompt-studio/internal/model"
	"github.com/leca/prompt-studio/internal/router"
	"github.com/leca/prompt-studio/internal/session"
	"github.com/leca/prompt-studio/internal/storage"
)

// stubGenerator stands in for the provider client so handler tests never
// touch the network.
type stubGenerator struct {
	img   image.Image
	err   error
	calls int
}

func (g *stubGenerator) Generate(ctx context.Context, req model.GenerationRequest) (image.Image, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.img, nil
}

type testEnv struct {
	ts       *httptest.Server
	db       database.Database
	cfg      *config.Config
	settings *config.Store
	gen      *stubGenerator
}

// newTestEnv builds a full server backed by in-memory SQLite, a temporary
// data directory and a stub generator.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.NewSQLiteDB("file::memory:?cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tmp := t.TempDir()
	cfg := &config.Config{
		ListenAddr:   "127.0.0.1:0",
		DataDir:      tmp,
		GeneratedDir: filepath.Join(tmp, "generated_images"),
	}

	settings, err := config.OpenStore(cfg.SettingsPath())
	require.NoError(t, err)

	gen := &stubGenerator{img: image.NewNRGBA(image.Rect(0, 0, 4, 4))}

	srv := router.New(db, storage.NewFileSystem(), cfg, settings, gen, session.NewManager())
	ts := httptest.NewServer(srv.Router)
	t.Cleanup(ts.Close)

	return &testEnv{ts: ts, db: db, cfg: cfg, settings: settings, gen: gen}
}

// doJSON performs a request with an optional JSON body.
func doJSON(t *testing.T, method, url string, body interface{}) *http.Response {
	t.Helper()

	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

// envelope mirrors the JSON envelope returned by every endpoint.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// decodeData asserts a success envelope and unmarshals its data field.
func decodeData(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.Nil(t, env.Error)
	require.NoError(t, json.Unmarshal(env.Data, target))
}

// decodeError asserts an error envelope and returns its code and message.
func decodeError(t *testing.T, resp *http.Response) (int, string) {
	t.Helper()
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.NotNil(t, env.Error)
	return env.Error.Code, env.Error.Message
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}
