package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"
)

type SQLStore struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLStore persists snapshots in the snapshots table created by db.Open.
// The mutex is the single-writer guard: concurrent saves for the same
// profile must not interleave.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Save(ctx context.Context, profile string, snap Snapshot) error {
	if profile == "" {
		return errors.New("snapshot: empty profile")
	}
	buf, err := snap.Encode()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (profile, schema_version, data, saved_at)
		 VALUES ($1,$2,$3,$4)
		 ON CONFLICT (profile) DO UPDATE SET schema_version=EXCLUDED.schema_version, data=EXCLUDED.data, saved_at=EXCLUDED.saved_at`,
		profile, snap.SchemaVersion, string(buf), time.Now().Unix())
	return err
}

func (s *SQLStore) Load(ctx context.Context, profile string) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `SELECT data FROM snapshots WHERE profile=$1`, profile)
	var data string
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, err
	}
	return Decode([]byte(data))
}
