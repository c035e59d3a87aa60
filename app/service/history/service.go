package history

import (
	"log/slog"
	"sync"

	"meetassist/app/config"
	"meetassist/app/util/metrics"

	"github.com/samber/do"
)

const DefaultCapacity = 10

// Entry is a saved set of prompt-shaping parameters.
type Entry struct {
	Role         string `json:"role" form:"role" query:"role"`
	Context      string `json:"context" form:"context" query:"context"`
	Focus        string `json:"focus" form:"focus" query:"focus"`
	CustomFormat string `json:"custom" form:"custom" query:"custom"`
}

// Service keeps the most recently saved entries, newest first.
type Service struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewService(cfg.History.Capacity), nil
}

func NewService(capacity int) *Service {
	if capacity < 1 {
		capacity = DefaultCapacity
	}

	return &Service{
		entries:  make([]Entry, 0, capacity+1),
		capacity: capacity,
	}
}

// Save puts entry in front and drops the oldest one past capacity. Equal
// entries are not merged.
func (s *Service) Save(entry Entry) {
	s.mu.Lock()
	s.entries = append(s.entries, Entry{})
	copy(s.entries[1:], s.entries)
	s.entries[0] = entry
	if len(s.entries) > s.capacity {
		s.entries = s.entries[:s.capacity]
	}
	size := len(s.entries)
	s.mu.Unlock()

	metrics.HistorySize.Set(float64(size))

	slog.Debug("Saved settings",
		"role", entry.Role,
		"focus", entry.Focus,
		"history_size", size,
	)
}

// List returns a copy of the entries, most recent first.
func (s *Service) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Entry, len(s.entries))
	copy(result, s.entries)

	return result
}
