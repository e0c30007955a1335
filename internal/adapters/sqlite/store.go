// Package sqlite provides a SQLite-backed cache for audio feature
// vectors, implementing the feature store port.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously

	"github.com/ewilliams-labs/resonate/internal/core/domain"
	"github.com/ewilliams-labs/resonate/internal/core/ports"
)

const defaultTTL = 24 * time.Hour

// Store caches feature vectors by track id with a fetch-time TTL.
type Store struct {
	db  *sql.DB
	ttl time.Duration
}

var _ ports.FeatureStore = (*Store)(nil)

// NewStore creates a connection and runs the schema migration. A
// storagePath of ":memory:" gives an ephemeral cache, useful in tests.
func NewStore(storagePath string, ttl time.Duration) (*Store, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	if ttl <= 0 {
		ttl = defaultTTL
	}
	store := &Store{db: db, ttl: ttl}

	// Auto-migrate on startup for local dev
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return store, nil
}

// Close ensures the DB connection is closed gracefully
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns cached, unexpired feature vectors for the given ids.
// Missing and expired entries are absent from the result.
func (s *Store) Get(ctx context.Context, ids []string) (map[string]domain.Features, error) {
	if len(ids) == 0 {
		return map[string]domain.Features{}, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	query := fmt.Sprintf(
		"SELECT track_id, features FROM audio_features WHERE track_id IN (%s) AND fetched_at >= ?",
		placeholders,
	)

	args := make([]any, 0, len(ids)+1)
	for _, id := range ids {
		args = append(args, id)
	}
	args = append(args, time.Now().Add(-s.ttl).UTC())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query feature cache: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Features)
	for rows.Next() {
		var (
			trackID string
			payload []byte
		)
		if err := rows.Scan(&trackID, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan feature cache row: %w", err)
		}
		var features domain.Features
		if err := json.Unmarshal(payload, &features); err != nil {
			// A corrupt row behaves like a cache miss.
			continue
		}
		out[trackID] = features
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate feature cache rows: %w", err)
	}

	return out, nil
}

// Put upserts one feature vector, resetting its fetch time.
func (s *Store) Put(ctx context.Context, id string, features domain.Features) error {
	payload, err := json.Marshal(features)
	if err != nil {
		return fmt.Errorf("failed to encode features: %w", err)
	}

	query := `
		INSERT INTO audio_features (track_id, features, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(track_id) DO UPDATE SET features=excluded.features, fetched_at=excluded.fetched_at;
	`
	if _, err := s.db.ExecContext(ctx, query, id, payload, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to upsert features: %w", err)
	}
	return nil
}

// Prune deletes expired entries. Intended to run periodically from the
// cache warmer.
func (s *Store) Prune(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		"DELETE FROM audio_features WHERE fetched_at < ?",
		time.Now().Add(-s.ttl).UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune feature cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned rows: %w", err)
	}
	return n, nil
}

func (s *Store) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS audio_features (
		track_id TEXT PRIMARY KEY,
		features TEXT NOT NULL,
		fetched_at DATETIME NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to run migration: %w", err)
	}
	return nil
}
