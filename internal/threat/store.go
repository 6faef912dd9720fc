package threat

import (
	"context"
	"log/slog"
	"sync"

	"riskradar/internal/common"
)

// Record pairs an evaluated candidate with its decision.
type Record struct {
	Candidate Candidate `json:"candidate"`
	Decision  Decision  `json:"decision"`
}

// Store persists evaluated incidents. The in-memory implementation is
// the default; anything durable plugs in behind the same interface.
type Store interface {
	Save(ctx context.Context, rec Record) error
	List(ctx context.Context) ([]Record, error)
}

// MemoryStore is a mutex-guarded in-memory Store.
type MemoryStore struct {
	mu   sync.Mutex
	data []Record
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Save(ctx context.Context, rec Record) error {
	m.mu.Lock()
	m.data = append(m.data, rec)
	m.mu.Unlock()
	slog.Debug("stored incident", "id", rec.Candidate.ID, "confirmed", rec.Decision.Confirmed)
	return nil
}

func (m *MemoryStore) List(ctx context.Context) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Record(nil), m.data...), nil
}

// Dismiss marks a stored incident dismissed. Returns false when the ID
// is unknown or the transition is not allowed.
func (m *MemoryStore) Dismiss(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.data {
		if m.data[i].Candidate.ID != id {
			continue
		}
		if !common.CanTransition(m.data[i].Candidate.Status, common.StatusDismissed) {
			return false
		}
		m.data[i].Candidate.Status = common.StatusDismissed
		return true
	}
	return false
}
