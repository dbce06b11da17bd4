package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/video-brief/backend/internal/config"
	"github.com/video-brief/backend/internal/transcript"
)

type fixedFetcher struct{}

func (fixedFetcher) Fetch(ctx context.Context, videoID string) ([]transcript.Entry, error) {
	return []transcript.Entry{{Text: "hello"}}, nil
}

type fixedSummarizer struct{}

func (fixedSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	return "summary", nil
}

func (fixedSummarizer) Name() string { return "fixed" }

func newTestRouter() http.Handler {
	cfg := &config.Config{GeminiModel: "gemini-2.0-flash", CORSOrigins: []string{"*"}}
	return NewRouter(cfg, fixedFetcher{}, fixedSummarizer{}, nil)
}

func TestRouterHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest("GET", "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouterSummarize(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest("GET", "/api/summarize?videoId=abc123", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"summary":"summary","transcript":"hello"}`, rec.Body.String())
}

func TestRouterSummarizeRateLimited(t *testing.T) {
	router := newTestRouter()

	var last int
	for i := 0; i < 11; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/summarize?videoId=abc123", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(rec, req)
		last = rec.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestRouterUnknownRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest("GET", "/api/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
