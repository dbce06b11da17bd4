package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/video-brief/backend/internal/db"
	"github.com/video-brief/backend/internal/summarize"
	"github.com/video-brief/backend/internal/transcript"
)

type SummaryHandler struct {
	fetcher    transcript.Fetcher
	summarizer summarize.Summarizer
	database   *db.Database
	model      string
}

// NewSummaryHandler wires the transcript source and summary engine. The
// database is an optional cache of successful results; pass nil to disable.
func NewSummaryHandler(fetcher transcript.Fetcher, summarizer summarize.Summarizer, database *db.Database, model string) *SummaryHandler {
	return &SummaryHandler{
		fetcher:    fetcher,
		summarizer: summarizer,
		database:   database,
		model:      model,
	}
}

type summaryResponse struct {
	Summary    string `json:"summary"`
	Transcript string `json:"transcript"`
}

// Summarize handles GET /api/summarize?videoId=<id>: fetch the caption
// track, join it into plain text, summarize it, and return both.
func (h *SummaryHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	videoID := r.URL.Query().Get("videoId")
	if videoID == "" {
		jsonError(w, "Video ID is required", http.StatusBadRequest)
		return
	}

	if cached := h.lookupCache(videoID); cached != nil {
		log.Info().Str("video_id", videoID).Msg("serving cached summary")
		jsonResponse(w, cached, http.StatusOK)
		return
	}

	entries, err := h.fetcher.Fetch(r.Context(), videoID)
	if err != nil {
		if transcript.IsUnavailable(err) {
			log.Warn().Str("video_id", videoID).Err(err).Msg("transcript unavailable")
			jsonError(w, "Transcript not available for this video", http.StatusNotFound)
			return
		}
		h.internalError(w, videoID, err)
		return
	}
	if len(entries) == 0 {
		log.Warn().Str("video_id", videoID).Msg("transcript fetch returned no entries")
		jsonError(w, "No transcript available", http.StatusNotFound)
		return
	}

	text := transcript.JoinText(entries)

	summary, err := h.summarizer.Summarize(r.Context(), text)
	if err != nil {
		var provErr *summarize.ProviderError
		if errors.As(err, &provErr) {
			log.Error().Str("video_id", videoID).Str("provider", h.summarizer.Name()).
				Bool("provider_error", true).Err(err).Msg("summarization failed")
			jsonError(w, "Gemini API error: "+provErr.Message, http.StatusInternalServerError)
			return
		}
		h.internalError(w, videoID, err)
		return
	}

	h.storeCache(videoID, text, summary)

	jsonResponse(w, &summaryResponse{Summary: summary, Transcript: text}, http.StatusOK)
}

func (h *SummaryHandler) internalError(w http.ResponseWriter, videoID string, err error) {
	log.Error().Str("video_id", videoID).Err(err).Msg("summary request failed")
	jsonResponse(w, map[string]string{
		"error":   "Internal server error",
		"details": err.Error(),
	}, http.StatusInternalServerError)
}

func (h *SummaryHandler) lookupCache(videoID string) *summaryResponse {
	if h.database == nil {
		return nil
	}
	cached, err := h.database.GetSummary(videoID, h.model)
	if err != nil {
		log.Warn().Str("video_id", videoID).Err(err).Msg("cache lookup failed")
		return nil
	}
	if cached == nil {
		return nil
	}
	return &summaryResponse{Summary: cached.Summary, Transcript: cached.Transcript}
}

// storeCache is best-effort: a write failure is logged and the response is
// served anyway.
func (h *SummaryHandler) storeCache(videoID, text, summary string) {
	if h.database == nil {
		return
	}
	if err := h.database.SaveSummary(videoID, h.model, text, summary); err != nil {
		log.Warn().Str("video_id", videoID).Err(err).Msg("cache write failed")
	}
}
