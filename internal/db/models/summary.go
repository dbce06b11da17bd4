package models

import "time"

// Summary is a cached summarization result for one video and model.
type Summary struct {
	VideoID    string    `json:"video_id"`
	Model      string    `json:"model"`
	Transcript string    `json:"transcript"`
	Summary    string    `json:"summary"`
	CreatedAt  time.Time `json:"created_at"`
}
