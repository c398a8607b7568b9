package store

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrNotFound is returned when no probe has been recorded yet.
	ErrNotFound = errors.New("no directory probe recorded")
)

// Probe is the outcome of one directory health check.
type Probe struct {
	At     time.Time `json:"at"`
	Cities int       `json:"cities"`
	Error  string    `json:"error,omitempty"`
}

// OK reports whether the probe reached the directory.
func (p Probe) OK() bool {
	return p.Error == ""
}

// MemoryStore is a concurrency-safe, bounded history of directory probes.
// It never holds directory or station data.
type MemoryStore struct {
	mu     sync.RWMutex
	probes []Probe

	// retention configuration
	maxHistory int           // max number of probes kept
	maxAge     time.Duration // optional max age for probes
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// SaveProbe appends a probe and enforces retention.
func (s *MemoryStore) SaveProbe(p Probe) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.probes = append(s.probes, p)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(s.probes) > s.maxHistory {
		over := len(s.probes) - s.maxHistory
		s.probes = s.probes[over:]
	}

	// Enforce retention by age; the newest probe is always kept.
	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(s.probes)-1; i++ {
			if !s.probes[i].At.Before(cutoff) {
				break
			}
		}
		s.probes = s.probes[i:]
	}
}

// Latest returns the most recent probe.
func (s *MemoryStore) Latest() (Probe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.probes) == 0 {
		return Probe{}, ErrNotFound
	}
	return s.probes[len(s.probes)-1], nil
}

// History returns a copy of all retained probes, oldest first.
func (s *MemoryStore) History() []Probe {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Probe, len(s.probes))
	copy(out, s.probes)
	return out
}
