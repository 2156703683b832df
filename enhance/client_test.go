package enhance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliakrupin/openapi-to-docx/docerrors"
	"github.com/iliakrupin/openapi-to-docx/markdown"
)

func chatServer(t *testing.T, content string, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req.Messages)
		assert.Positive(t, req.MaxTokens)

		resp := map[string]any{
			"choices": []any{
				map[string]any{"message": map[string]any{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(Options{BaseURL: baseURL, Token: "secret"})
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, docerrors.ErrConfig)
}

func TestEnhance(t *testing.T) {
	var calls atomic.Int32
	srv := chatServer(t, "Registers **a new** pet in the catalog.", &calls)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	ep := markdown.EndpointContext{Method: "POST", Path: "/pets"}

	got, err := c.Enhance(context.Background(), "create pet", ep)
	require.NoError(t, err)
	// Markdown emphasis is stripped from the model output.
	assert.Equal(t, "Registers a new pet in the catalog.", got)

	// Second call is served from cache.
	again, err := c.Enhance(context.Background(), "create pet", ep)
	require.NoError(t, err)
	assert.Equal(t, got, again)
	assert.Equal(t, int32(1), calls.Load())
}

func TestEnhance_ShortResponseRejected(t *testing.T) {
	srv := chatServer(t, "ok", nil)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Enhance(context.Background(), "desc", markdown.EndpointContext{Method: "GET", Path: "/x"})
	assert.Error(t, err)
}

func TestEnhance_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Enhance(context.Background(), "desc", markdown.EndpointContext{Method: "GET", Path: "/x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestEnhanceBatch(t *testing.T) {
	answer := "```json\n" + `[
		{"endpoint": "GET /pets", "description": "Lists every pet in the catalog."},
		{"endpoint": "POST /pets", "description": "Registers a new pet."}
	]` + "\n```"
	var calls atomic.Int32
	srv := chatServer(t, answer, &calls)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	items := map[string]markdown.EndpointContext{
		"list pets":  {Method: "GET", Path: "/pets"},
		"create pet": {Method: "POST", Path: "/pets"},
	}

	got, err := c.EnhanceBatch(context.Background(), items)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"list pets":  "Lists every pet in the catalog.",
		"create pet": "Registers a new pet.",
	}, got)

	// All answers cached: a second batch issues no further requests.
	again, err := c.EnhanceBatch(context.Background(), items)
	require.NoError(t, err)
	assert.Equal(t, got, again)
	assert.Equal(t, int32(1), calls.Load())
}

func TestEnhanceBatch_PartialAnswers(t *testing.T) {
	answer := `[{"endpoint": "GET /pets", "description": "Lists every pet in the catalog."}]`
	srv := chatServer(t, answer, nil)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.EnhanceBatch(context.Background(), map[string]markdown.EndpointContext{
		"list pets":  {Method: "GET", Path: "/pets"},
		"create pet": {Method: "POST", Path: "/pets"},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"list pets": "Lists every pet in the catalog."}, got)
}

func TestEnhanceBatch_InvalidJSON(t *testing.T) {
	srv := chatServer(t, "sorry, cannot help with that", nil)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.EnhanceBatch(context.Background(), map[string]markdown.EndpointContext{
		"desc": {Method: "GET", Path: "/x"},
	})
	assert.Error(t, err)
}

func TestEnhanceBatch_Empty(t *testing.T) {
	c := newTestClient(t, "http://unused.invalid")
	got, err := c.EnhanceBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestExtractFencedJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare", `[1]`, `[1]`},
		{"json fence", "text\n```json\n[1]\n```\ntail", "[1]"},
		{"plain fence", "```\n[1]\n```", "[1]"},
		{"unterminated fence", "```json\n[1]", "[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractFencedJSON(tt.input))
		})
	}
}
