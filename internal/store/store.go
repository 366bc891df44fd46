// Package store is the client's local sqlite store: the persisted session
// (user, token, credits) and a cache of the trip list for offline redisplay.
// A Store is explicitly opened and injected; there is no package-level
// instance.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"precisely/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS session (
    id         INTEGER PRIMARY KEY CHECK(id = 1),
    user_id    TEXT NOT NULL,
    email      TEXT NOT NULL,
    name       TEXT NOT NULL,
    token      TEXT NOT NULL,
    credits    INTEGER NOT NULL DEFAULT 0,
    updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
);

CREATE TABLE IF NOT EXISTS trips (
    id              TEXT PRIMARY KEY,
    title           TEXT NOT NULL,
    destination     TEXT NOT NULL,
    start_date      TEXT,
    end_date        TEXT,
    num_travelers   INTEGER NOT NULL DEFAULT 1,
    budget_level    TEXT,
    planning_status TEXT NOT NULL DEFAULT 'pending',
    interests       TEXT NOT NULL DEFAULT '[]',
    created_at      TEXT
);

CREATE INDEX IF NOT EXISTS idx_trips_created_at ON trips(created_at DESC);
`

// Store is the local database handle.
type Store struct {
	db *sql.DB
}

// Open opens or creates the local database and initializes the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Session is the persisted sign-in state.
type Session struct {
	User  model.User
	Token string
}

// LoadSession hydrates the persisted session. ok is false when no one is
// signed in.
func (s *Store) LoadSession() (Session, bool, error) {
	var sess Session
	err := s.db.QueryRow(
		`SELECT user_id, email, name, token, credits FROM session WHERE id = 1`,
	).Scan(&sess.User.ID, &sess.User.Email, &sess.User.Name, &sess.Token, &sess.User.Credits)
	if err == sql.ErrNoRows {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("failed to load session: %w", err)
	}
	return sess, true, nil
}

// SaveSession persists the sign-in state, replacing any previous session.
func (s *Store) SaveSession(sess Session) error {
	_, err := s.db.Exec(
		`INSERT INTO session (id, user_id, email, name, token, credits, updated_at)
		 VALUES (1, ?, ?, ?, ?, ?, strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		 ON CONFLICT(id) DO UPDATE SET
		     user_id = excluded.user_id,
		     email = excluded.email,
		     name = excluded.name,
		     token = excluded.token,
		     credits = excluded.credits,
		     updated_at = excluded.updated_at`,
		sess.User.ID, sess.User.Email, sess.User.Name, sess.Token, sess.User.Credits,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// UpdateCredits stores the latest credit balance.
func (s *Store) UpdateCredits(credits int) error {
	if _, err := s.db.Exec(`UPDATE session SET credits = ? WHERE id = 1`, credits); err != nil {
		return fmt.Errorf("failed to update credits: %w", err)
	}
	return nil
}

// ClearSession signs the user out: the session row and the cached trips are
// both removed.
func (s *Store) ClearSession() error {
	if _, err := s.db.Exec(`DELETE FROM session`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM trips`); err != nil {
		return fmt.Errorf("failed to clear cached trips: %w", err)
	}
	return nil
}

// CacheTrips replaces the cached trip list.
func (s *Store) CacheTrips(trips []model.Trip) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM trips`); err != nil {
		return fmt.Errorf("failed to clear cached trips: %w", err)
	}
	for _, t := range trips {
		interests, err := json.Marshal(t.Interests)
		if err != nil {
			return fmt.Errorf("failed to encode interests: %w", err)
		}
		_, err = tx.Exec(
			`INSERT INTO trips (id, title, destination, start_date, end_date, num_travelers, budget_level, planning_status, interests, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Title, t.Destination, t.StartDate, t.EndDate,
			t.NumTravelers, t.BudgetLevel, t.PlanningStatus, string(interests),
			t.CreatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("failed to cache trip: %w", err)
		}
	}
	return tx.Commit()
}

// CachedTrips returns the cached trip list, newest first.
func (s *Store) CachedTrips() ([]model.Trip, error) {
	rows, err := s.db.Query(
		`SELECT id, title, destination, COALESCE(start_date, ''), COALESCE(end_date, ''),
		        num_travelers, COALESCE(budget_level, ''), planning_status, interests, COALESCE(created_at, '')
		 FROM trips ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list cached trips: %w", err)
	}
	defer rows.Close()

	var trips []model.Trip
	for rows.Next() {
		var t model.Trip
		var interests, createdAt string
		if err := rows.Scan(&t.ID, &t.Title, &t.Destination, &t.StartDate, &t.EndDate,
			&t.NumTravelers, &t.BudgetLevel, &t.PlanningStatus, &interests, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan cached trip: %w", err)
		}
		if err := json.Unmarshal([]byte(interests), &t.Interests); err != nil {
			t.Interests = nil
		}
		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			t.CreatedAt = ts
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cached trips: %w", err)
	}
	return trips, nil
}
