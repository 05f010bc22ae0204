// Package prefs persists the operator's last-used header configuration and
// the next starting code, read at startup and written after each successful
// batch.
package prefs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/examix/examix/internal/exam"
)

const storageKey = "last_batch"

type Prefs struct {
	Header   exam.HeaderConfig `json:"header"`
	NextCode int               `json:"next_code"`
}

// Defaults is what a fresh installation starts from.
func Defaults() Prefs {
	return Prefs{NextCode: 101}
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Load(ctx context.Context) (Prefs, error) {
	row := s.db.QueryRowContext(ctx, `SELECT value FROM examix_prefs WHERE key=$1`, storageKey)
	var raw string
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Defaults(), nil
		}
		return Prefs{}, err
	}
	var p Prefs
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Defaults(), nil
	}
	if p.NextCode <= 0 {
		p.NextCode = Defaults().NextCode
	}
	return p, nil
}

func (s *Store) Save(ctx context.Context, p Prefs) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO examix_prefs (key,value,updated_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=EXCLUDED.updated_at`,
		storageKey, string(raw), time.Now().Unix())
	return err
}
