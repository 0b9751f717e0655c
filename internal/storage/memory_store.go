package storage

import (
	"context"
	"sync"

	"github.com/01moynul/inventario-golang/internal/models"
)

// MemoryStore keeps the record set in process memory. It reports itself as
// the local backend and is meant for tests and throwaway sessions.
type MemoryStore struct {
	mu      sync.Mutex
	records []models.Record

	// LoadErr and SaveErr, when set, make the next calls fail the same way
	// a real backend would.
	LoadErr error
	SaveErr error
	Saves   int
}

// NewMemoryStore returns a store seeded with a copy of records.
func NewMemoryStore(records ...models.Record) *MemoryStore {
	return &MemoryStore{records: clone(records)}
}

func (s *MemoryStore) Backend() Backend { return BackendLocal }

func (s *MemoryStore) Load(ctx context.Context) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return emptySet(), &ReadError{Backend: BackendLocal, Err: s.LoadErr}
	}
	return clone(s.records), nil
}

func (s *MemoryStore) Save(ctx context.Context, records []models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return &WriteError{Backend: BackendLocal, Err: s.SaveErr}
	}
	s.records = clone(records)
	s.Saves++
	return nil
}

// Records returns a copy of what is currently persisted.
func (s *MemoryStore) Records() []models.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.records)
}

func clone(records []models.Record) []models.Record {
	out := make([]models.Record, len(records))
	copy(out, records)
	return out
}
