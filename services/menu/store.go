package menu

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"unigate-backend/lib/scrapers/unisis"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS menu_snapshot (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	fetched_at INTEGER NOT NULL,
	data TEXT NOT NULL
);
`

// SnapshotStore keeps a history of fetched snapshots in sqlite. Its
// only operational role is warm start: the newest row primes the cache
// after a restart so the first request does not have to hit upstream.
type SnapshotStore struct {
	db *sql.DB
}

func NewSnapshotStore(db *sql.DB) (*SnapshotStore, error) {
	_, err := db.Exec(schema)
	if err != nil {
		return nil, err
	}
	return &SnapshotStore{db: db}, nil
}

func (s *SnapshotStore) Append(ctx context.Context, snapshot unisis.MenuSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO menu_snapshot (fetched_at, data) VALUES (?, ?)`,
		snapshot.LastUpdated.Unix(), string(data),
	)
	return err
}

// Latest returns the newest stored snapshot, or nil when the history
// is empty.
func (s *SnapshotStore) Latest(ctx context.Context) (*unisis.MenuSnapshot, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT data FROM menu_snapshot ORDER BY id DESC LIMIT 1`,
	)

	var data string
	err := row.Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snapshot unisis.MenuSnapshot
	err = json.Unmarshal([]byte(data), &snapshot)
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}
