package appointments

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

// Store persists appointment records. Create assigns the id and the
// creation timestamp; records are never updated afterwards.
type Store interface {
	Create(ctx context.Context, rec Record) (string, error)
	Get(ctx context.Context, id string) (Record, error)
	ListRecent(ctx context.Context, limit int) ([]Record, error)
	ListByEmail(ctx context.Context, email string) ([]Record, error)
}

// ClampLimit applies the listing defaults.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// MemoryStore keeps records in process. Used for local development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]Record),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Create(ctx context.Context, rec Record) (string, error) {
	rec.ID = uuid.New().String()
	rec.CreatedAt = s.now()

	s.mu.Lock()
	s.records[rec.ID] = rec
	s.mu.Unlock()
	return rec.ID, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (s *MemoryStore) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	out := s.filter(func(Record) bool { return true })
	if limit = ClampLimit(limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) ListByEmail(ctx context.Context, email string) ([]Record, error) {
	email = strings.TrimSpace(email)
	return s.filter(func(r Record) bool { return r.Email == email }), nil
}

func (s *MemoryStore) filter(keep func(Record) bool) []Record {
	s.mu.RLock()
	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
