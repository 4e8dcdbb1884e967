package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hireloop/jobsync/internal/domain/model"
)

// Default store configuration constants.
const (
	defaultBusyTimeout     = 5 * time.Second
	defaultConnMaxLifetime = 5 * time.Minute
	openPingTimeout        = 2 * time.Second
)

const schema = `
CREATE TABLE IF NOT EXISTS applications (
	id           TEXT PRIMARY KEY,
	listing_id   TEXT NOT NULL,
	applicant_id TEXT NOT NULL,
	name         TEXT NOT NULL,
	email        TEXT NOT NULL,
	phone        TEXT NOT NULL,
	skills       TEXT NOT NULL,
	experience   TEXT NOT NULL,
	education    TEXT NOT NULL,
	resume_ref   TEXT NOT NULL,
	submitted_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_applications_listing ON applications(listing_id);
`

// SQLiteStore implements Store on an embedded sqlite database.
type SQLiteStore struct {
	pool *sql.DB

	busyTimeout     time.Duration
	connMaxLifetime time.Duration
}

// Open creates (or opens) the database at path, applies the schema, and
// returns a ready store. Use a file path; sqlite wants a single writer, so
// the pool is capped at one connection.
func Open(path string, opts ...Option) (*SQLiteStore, error) {
	s := &SQLiteStore{
		busyTimeout:     defaultBusyTimeout,
		connMaxLifetime: defaultConnMaxLifetime,
	}
	for _, opt := range opts {
		opt(s)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", path, s.busyTimeout.Milliseconds())
	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	pool.SetMaxOpenConns(1)
	pool.SetConnMaxLifetime(s.connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), openPingTimeout)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := pool.ExecContext(ctx, schema); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	s.pool = pool
	return s, nil
}

// SaveApplication persists one submission record.
func (s *SQLiteStore) SaveApplication(ctx context.Context, app model.Application) error {
	skills, err := json.Marshal(app.Profile.Skills)
	if err != nil {
		return fmt.Errorf("encode skills: %w", err)
	}

	_, err = s.pool.ExecContext(ctx, `
		INSERT INTO applications
			(id, listing_id, applicant_id, name, email, phone, skills, experience, education, resume_ref, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		app.ID,
		app.ListingID,
		app.ApplicantID,
		app.Profile.Name,
		app.Profile.Email,
		app.Profile.Phone,
		string(skills),
		app.Profile.Experience,
		app.Profile.Education,
		app.Profile.ResumeRef,
		app.SubmittedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert application %s: %w", app.ID, err)
	}
	return nil
}

// GetApplication returns a stored record by id.
func (s *SQLiteStore) GetApplication(ctx context.Context, id string) (model.Application, error) {
	row := s.pool.QueryRowContext(ctx, `
		SELECT id, listing_id, applicant_id, name, email, phone, skills, experience, education, resume_ref, submitted_at
		FROM applications WHERE id = ?`, id)

	var app model.Application
	var skills, submittedAt string
	err := row.Scan(
		&app.ID,
		&app.ListingID,
		&app.ApplicantID,
		&app.Profile.Name,
		&app.Profile.Email,
		&app.Profile.Phone,
		&skills,
		&app.Profile.Experience,
		&app.Profile.Education,
		&app.Profile.ResumeRef,
		&submittedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Application{}, ErrNotFound
	}
	if err != nil {
		return model.Application{}, fmt.Errorf("get application %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(skills), &app.Profile.Skills); err != nil {
		return model.Application{}, fmt.Errorf("decode skills for %s: %w", id, err)
	}
	if app.SubmittedAt, err = time.Parse(time.RFC3339Nano, submittedAt); err != nil {
		return model.Application{}, fmt.Errorf("decode submitted_at for %s: %w", id, err)
	}
	return app, nil
}

// CountApplications returns how many applications exist for a listing.
func (s *SQLiteStore) CountApplications(ctx context.Context, listingID string) (int, error) {
	var n int
	err := s.pool.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM applications WHERE listing_id = ?`, listingID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count applications for %s: %w", listingID, err)
	}
	return n, nil
}

// Close releases the database.
func (s *SQLiteStore) Close() error {
	if s == nil || s.pool == nil {
		return nil
	}
	return s.pool.Close()
}
