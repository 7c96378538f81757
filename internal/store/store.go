// Package store persists contact messages and privacy-conscious page-view
// records in sqlite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a message id does not exist.
var ErrNotFound = errors.New("store: not found")

// Message is one contact form submission.
type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Body      string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// ViewRecord is one mounted page view. The client address is stored hashed.
type ViewRecord struct {
	ID        string    `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

// Stats summarises the stored data for the admin dashboard.
type Stats struct {
	TotalViews     int64        `json:"total_views"`
	UniqueVisitors int64        `json:"unique_visitors"`
	ViewsToday     int64        `json:"views_today"`
	ViewsThisWeek  int64        `json:"views_this_week"`
	TotalMessages  int64        `json:"total_messages"`
	RecentViews    []ViewRecord `json:"recent_views"`
}

type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	body TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS views (
	id TEXT PRIMARY KEY,
	hashed_ip TEXT NOT NULL,
	user_agent TEXT,
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS views_created_at ON views (created_at);
`

// Open opens (creating if needed) the database at path. ":memory:" works
// for tests.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite serialises writers; one connection also keeps :memory: alive.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) SaveMessage(ctx context.Context, m Message) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id, name, email, body, created_at) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Email, m.Body, m.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// Messages returns the newest messages first.
func (s *Store) Messages(ctx context.Context, limit int) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, body, created_at FROM messages ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) DeleteMessage(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) RecordView(ctx context.Context, v ViewRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO views (id, hashed_ip, user_agent, created_at) VALUES (?, ?, ?, ?)`,
		v.ID, v.HashedIP, v.UserAgent, v.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert view: %w", err)
	}
	return nil
}

// CleanupViews removes view records older than before and reports how many
// were deleted.
func (s *Store) CleanupViews(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM views WHERE created_at < ?`, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("cleanup views: %w", err)
	}
	return res.RowsAffected()
}

// Stats computes the dashboard numbers relative to now.
func (s *Store) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	st := &Stats{}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).UTC()
	week := now.Add(-7 * 24 * time.Hour).UTC()

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&st.TotalViews, `SELECT COUNT(*) FROM views`, nil},
		{&st.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM views`, nil},
		{&st.ViewsToday, `SELECT COUNT(*) FROM views WHERE created_at >= ?`, []any{today}},
		{&st.ViewsThisWeek, `SELECT COUNT(*) FROM views WHERE created_at >= ?`, []any{week}},
		{&st.TotalMessages, `SELECT COUNT(*) FROM messages`, nil},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, hashed_ip, COALESCE(user_agent, ''), created_at FROM views ORDER BY created_at DESC LIMIT 50`)
	if err != nil {
		return nil, fmt.Errorf("recent views: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var v ViewRecord
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan view: %w", err)
		}
		st.RecentViews = append(st.RecentViews, v)
	}
	return st, rows.Err()
}
