package db

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/video-brief/backend/internal/db/models"
)

type Database struct {
	db *sql.DB
}

func NewSQLite(path string) (*Database, error) {
	sqlDB, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	d := &Database{db: sqlDB}
	if err := d.migrate(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Database) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS summaries (
		video_id TEXT NOT NULL,
		model TEXT NOT NULL,
		transcript TEXT NOT NULL,
		summary TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (video_id, model)
	);
	`
	_, err := d.db.Exec(schema)
	return err
}

// GetSummary returns the cached summary for (videoID, model), or nil when
// there is no cached row.
func (d *Database) GetSummary(videoID, model string) (*models.Summary, error) {
	s := &models.Summary{}
	err := d.db.QueryRow(
		"SELECT video_id, model, transcript, summary, created_at FROM summaries WHERE video_id = ? AND model = ?",
		videoID, model,
	).Scan(&s.VideoID, &s.Model, &s.Transcript, &s.Summary, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// SaveSummary stores a successful summarization, replacing any earlier row
// for the same video and model.
func (d *Database) SaveSummary(videoID, model, transcript, summary string) error {
	_, err := d.db.Exec(
		"INSERT OR REPLACE INTO summaries (video_id, model, transcript, summary) VALUES (?, ?, ?, ?)",
		videoID, model, transcript, summary,
	)
	return err
}

func (d *Database) Close() error {
	return d.db.Close()
}
