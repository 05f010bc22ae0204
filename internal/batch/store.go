// Package batch tracks generated batches so the front-end can poll for the
// bundle and the late-arriving advisory.
package batch

import (
	"sort"
	"sync"
	"time"

	"github.com/examix/examix/internal/exam"
)

type Record struct {
	ID        string                 `json:"id"`
	CreatedAt time.Time              `json:"created_at"`
	Codes     []int                  `json:"codes"`
	Issues    []exam.ValidationIssue `json:"issues"`
	BundleKey string                 `json:"bundle_key"`
	Advisory  string                 `json:"advisory,omitempty"`
}

type Store struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewStore() *Store {
	return &Store{records: map[string]Record{}}
}

func (s *Store) Put(r Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[r.ID] = r
}

func (s *Store) Get(id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	return r, ok
}

// SetAdvisory attaches the reviewer's commentary when it eventually lands.
// A missing record (restart between generate and review) is a no-op.
func (s *Store) SetAdvisory(id, advisory string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return
	}
	r.Advisory = advisory
	s.records[id] = r
}

func (s *Store) List() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
