package store

import (
	"errors"
	"sync"
	"time"

	"github.com/Sanjai-Shaarugesh/Advanced-Weather-Companion/internal/weather"
)

var (
	// ErrNotFound is returned when no snapshot is available for a location.
	ErrNotFound = errors.New("no weather data for location")
)

// snapshotHistory holds a time-ordered list of snapshots for one location.
type snapshotHistory struct {
	snapshots []weather.NormalizedWeather
}

// MemoryStore is a concurrency-safe in-memory implementation of
// weather.Store with retention by count and age. A failed refresh never
// touches it, so the last good snapshot survives outages.
type MemoryStore struct {
	mu sync.RWMutex

	// key: location key, value: history
	data map[string]*snapshotHistory

	maxHistory int           // max snapshots per location, <= 0 means unlimited
	maxAge     time.Duration // optional max age for snapshots
}

// NewMemoryStore creates a MemoryStore with optional limits.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*snapshotHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// SaveSnapshot appends a snapshot for a location and enforces retention.
func (s *MemoryStore) SaveSnapshot(loc weather.ResolvedLocation, snapshot weather.NormalizedWeather) {
	key := loc.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[key]
	if !ok {
		history = &snapshotHistory{}
		s.data[key] = history
	}

	history.snapshots = append(history.snapshots, snapshot)

	if s.maxHistory > 0 && len(history.snapshots) > s.maxHistory {
		over := len(history.snapshots) - s.maxHistory
		history.snapshots = history.snapshots[over:]
	}

	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.snapshots); i++ {
			if !history.snapshots[i].FetchedAt.Before(cutoff) {
				break
			}
		}
		if i > 0 && i < len(history.snapshots) {
			history.snapshots = history.snapshots[i:]
		}
	}
}

// GetLatest returns the most recent snapshot for a location.
func (s *MemoryStore) GetLatest(loc weather.ResolvedLocation) (weather.NormalizedWeather, error) {
	key := loc.Key()

	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[key]
	if !ok || len(history.snapshots) == 0 {
		return weather.NormalizedWeather{}, ErrNotFound
	}
	return history.snapshots[len(history.snapshots)-1], nil
}

// GetRange returns all snapshots for a location between from and to
// (inclusive).
func (s *MemoryStore) GetRange(loc weather.ResolvedLocation, from, to time.Time) ([]weather.NormalizedWeather, error) {
	key := loc.Key()

	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[key]
	if !ok || len(history.snapshots) == 0 {
		return nil, ErrNotFound
	}

	var result []weather.NormalizedWeather
	for _, snap := range history.snapshots {
		if !snap.FetchedAt.Before(from) && !snap.FetchedAt.After(to) {
			result = append(result, snap)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}
