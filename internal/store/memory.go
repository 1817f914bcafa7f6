package store

import (
	"errors"
	"sync"
	"time"

	"github.com/avonside/weather-bulletin/internal/bulletin"
)

var (
	// ErrNotFound is returned when no bulletin matches the request.
	ErrNotFound = errors.New("no bulletin recorded")
)

// MemoryStore is a concurrency-safe in-memory bulletin history. The system
// tracks a single location, so there is one time-ordered stream of records.
type MemoryStore struct {
	mu sync.RWMutex

	records []bulletin.Record

	// retention configuration
	maxHistory int           // max number of records
	maxAge     time.Duration // optional max age for records
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// Save appends a new record and enforces retention.
func (s *MemoryStore) Save(rec bulletin.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, rec)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(s.records) > s.maxHistory {
		over := len(s.records) - s.maxHistory
		s.records = s.records[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(s.records); i++ {
			if !s.records[i].GeneratedAt.Before(cutoff) {
				break
			}
		}
		if i > 0 && i < len(s.records) {
			s.records = s.records[i:]
		}
	}
}

// Latest returns the most recently generated bulletin.
func (s *MemoryStore) Latest() (bulletin.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.records) == 0 {
		return bulletin.Record{}, ErrNotFound
	}
	return s.records[len(s.records)-1], nil
}

// Range returns all bulletins generated between from and to (inclusive).
func (s *MemoryStore) Range(from, to time.Time) ([]bulletin.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []bulletin.Record
	for _, rec := range s.records {
		if (rec.GeneratedAt.Equal(from) || rec.GeneratedAt.After(from)) &&
			(rec.GeneratedAt.Equal(to) || rec.GeneratedAt.Before(to)) {
			result = append(result, rec)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}

	return result, nil
}
