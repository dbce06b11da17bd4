package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGemini(srv *httptest.Server) *Gemini {
	return &Gemini{
		apiKey:     "test-key",
		model:      "gemini-2.0-flash",
		apiBase:    srv.URL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestGeminiSummarize(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		require.Contains(t, r.URL.Path, "gemini-2.0-flash:generateContent")

		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotPrompt = req.Contents[0].Parts[0].Text

		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": "a fine summary"}}}, "finishReason": "STOP"},
			},
		})
	}))
	defer srv.Close()

	got, err := newTestGemini(srv).Summarize(context.Background(), "the transcript text")
	require.NoError(t, err)
	assert.Equal(t, "a fine summary", got)
	assert.True(t, strings.HasSuffix(gotPrompt, "the transcript text"), "transcript must be embedded verbatim at the end of the prompt")
}

func TestGeminiSummarizeAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"API key not valid"}}`))
	}))
	defer srv.Close()

	_, err := newTestGemini(srv).Summarize(context.Background(), "text")
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "API key not valid", provErr.Message)
}

func TestGeminiSummarizeBlocked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer srv.Close()

	_, err := newTestGemini(srv).Summarize(context.Background(), "text")
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Contains(t, provErr.Message, "SAFETY")
}

func TestGeminiSummarizeTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	_, err := newTestGemini(srv).Summarize(context.Background(), "text")
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
}

func TestGeminiSummarizeNoKey(t *testing.T) {
	g := NewGemini("", "")
	_, err := g.Summarize(context.Background(), "text")
	var provErr *ProviderError
	require.True(t, errors.As(err, &provErr))
}
