package transcript

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Service tries an ordered list of fetch strategies. A strategy failure
// falls through to the next one; the last error surfaces only when every
// strategy has failed. With a proxy configured the order is proxy then
// direct, so a transcript-not-found result is final only if both paths fail.
type Service struct {
	fetchers []Fetcher
}

func NewService(fetchers ...Fetcher) *Service {
	return &Service{fetchers: fetchers}
}

func (s *Service) Fetch(ctx context.Context, videoID string) ([]Entry, error) {
	var lastErr error
	for i, f := range s.fetchers {
		entries, err := f.Fetch(ctx, videoID)
		if err == nil {
			return entries, nil
		}
		lastErr = err
		if i < len(s.fetchers)-1 {
			log.Warn().Str("video_id", videoID).Err(err).Msg("transcript fetch failed, trying next source")
		}
	}
	return nil, lastErr
}
