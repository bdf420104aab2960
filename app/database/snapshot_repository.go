package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"cloudpulse/app/feed"
)

// SnapshotRepository persists the last successfully fetched payload per cache
// key so a restart or an upstream outage can serve stale-but-present data.
type SnapshotRepository interface {
	Save(key string, items []feed.Item, fetchedAt time.Time) error
	Load(key string) ([]feed.Item, *time.Time, error)
}

type snapshotRepository struct {
	db *DB
}

func NewSnapshotRepository(db *DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) Save(key string, items []feed.Item, fetchedAt time.Time) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot payload: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO snapshots (key, payload, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			payload = excluded.payload,
			fetched_at = excluded.fetched_at
	`, key, string(payload), fetchedAt.UTC())

	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

func (r *snapshotRepository) Load(key string) ([]feed.Item, *time.Time, error) {
	var payload string
	var fetchedAt time.Time

	err := r.db.QueryRow(`
		SELECT payload, fetched_at FROM snapshots WHERE key = ?
	`, key).Scan(&payload, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var items []feed.Item
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal snapshot payload: %w", err)
	}

	return items, &fetchedAt, nil
}
