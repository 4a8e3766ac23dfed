package eventlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is one accepted session transition.
type Event struct {
	Offset    int64  `json:"offset"`
	ID        string `json:"id"`
	Profile   string `json:"profile"`
	Type      string `json:"type"`
	DataJSON  string `json:"data"`
	CreatedAt int64  `json:"created_at"`
}

type Repo struct{ db *sql.DB }

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

// Transition appends one row per accepted transition. Satisfies the session
// package's Auditor interface.
func (r *Repo) Transition(ctx context.Context, profile, typ string, data any) error {
	buf, err := json.Marshal(data)
	if err != nil {
		buf = []byte("{}")
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO event_log (id, profile, typ, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		uuid.NewString(), profile, typ, string(buf), time.Now().Unix())
	return err
}

// Recent lists the newest events for a profile, newest first.
func (r *Repo) Recent(ctx context.Context, profile string, limit int) ([]Event, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT "offset", id, profile, typ, data, created_at FROM event_log
		 WHERE profile=$1 ORDER BY "offset" DESC LIMIT $2`, profile, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Offset, &e.ID, &e.Profile, &e.Type, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
