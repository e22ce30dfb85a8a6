package store

import (
	"database/sql"
	"time"
)

// Announcement records a gesture that was newly announced in a session.
type Announcement struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Gesture   string    `json:"gesture"`
	CreatedAt time.Time `json:"created_at"`
}

// AnnouncementRepository provides access to the announcement log.
type AnnouncementRepository struct {
	db *sql.DB
}

// Announcements returns the announcement repository for this store.
func (s *Store) Announcements() *AnnouncementRepository {
	return &AnnouncementRepository{db: s.db}
}

// Create appends an announcement and fills in its ID.
func (r *AnnouncementRepository) Create(a *Announcement) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	result, err := r.db.Exec(
		`INSERT INTO announcements (session_id, gesture, created_at) VALUES (?, ?, ?)`,
		a.SessionID, a.Gesture, a.CreatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = id

	return nil
}

// ListBySession returns a session's announcements in order.
func (r *AnnouncementRepository) ListBySession(sessionID string) ([]Announcement, error) {
	return r.query(
		`SELECT id, session_id, gesture, created_at FROM announcements
		 WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
}

// Recent returns the newest announcements across all sessions.
func (r *AnnouncementRepository) Recent(limit int) ([]Announcement, error) {
	if limit <= 0 {
		limit = 20
	}
	return r.query(
		`SELECT id, session_id, gesture, created_at FROM announcements
		 ORDER BY id DESC LIMIT ?`,
		limit,
	)
}

// CountByGesture returns how often each gesture has been announced.
func (r *AnnouncementRepository) CountByGesture() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT gesture, COUNT(*) FROM announcements GROUP BY gesture`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var gesture string
		var n int
		if err := rows.Scan(&gesture, &n); err != nil {
			return nil, err
		}
		counts[gesture] = n
	}

	return counts, rows.Err()
}

func (r *AnnouncementRepository) query(q string, args ...any) ([]Announcement, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Announcement
	for rows.Next() {
		var a Announcement
		if err := rows.Scan(&a.ID, &a.SessionID, &a.Gesture, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
