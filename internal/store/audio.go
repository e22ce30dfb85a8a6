package store

import (
	"database/sql"
	"errors"
	"time"
)

// AudioClip indexes a synthesized speech file by the text it speaks.
type AudioClip struct {
	Text         string
	Path         string
	SizeBytes    int64
	Plays        int
	CreatedAt    time.Time
	LastPlayedAt *time.Time
}

// AudioRepository provides access to the audio clip index.
type AudioRepository struct {
	db *sql.DB
}

// AudioClips returns the audio clip repository for this store.
func (s *Store) AudioClips() *AudioRepository {
	return &AudioRepository{db: s.db}
}

// Put inserts or replaces the clip for c.Text.
func (r *AudioRepository) Put(c *AudioClip) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO audio_clips (text, path, size_bytes, plays, created_at)
		 VALUES (?, ?, ?, 0, ?)
		 ON CONFLICT(text) DO UPDATE SET path = excluded.path, size_bytes = excluded.size_bytes`,
		c.Text, c.Path, c.SizeBytes, c.CreatedAt,
	)
	return err
}

// Get retrieves the clip for text.
func (r *AudioRepository) Get(text string) (*AudioClip, error) {
	c := &AudioClip{}
	var lastPlayed sql.NullTime

	err := r.db.QueryRow(
		`SELECT text, path, size_bytes, plays, created_at, last_played_at
		 FROM audio_clips WHERE text = ?`,
		text,
	).Scan(&c.Text, &c.Path, &c.SizeBytes, &c.Plays, &c.CreatedAt, &lastPlayed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if lastPlayed.Valid {
		c.LastPlayedAt = &lastPlayed.Time
	}
	return c, nil
}

// MarkPlayed bumps the play counter for text.
func (r *AudioRepository) MarkPlayed(text string) error {
	result, err := r.db.Exec(
		`UPDATE audio_clips SET plays = plays + 1, last_played_at = ? WHERE text = ?`,
		time.Now(), text,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes the clip for text.
func (r *AudioRepository) Delete(text string) error {
	result, err := r.db.Exec(`DELETE FROM audio_clips WHERE text = ?`, text)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
