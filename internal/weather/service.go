package weather

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// probeCoords is the fixed coordinate used for advisory health probes.
var probeCoords = Coordinates{Lat: 51.5074, Lon: -0.1278}

// Service orchestrates the resolve-then-fetch pipeline: it resolves a
// location, fetches from the selected provider, falls back once to a
// known-working alternate on failure, and persists normalized snapshots.
type Service struct {
	store     Store
	registry  map[string]Adapter
	transport Transport
	resolver  Resolver

	providerID string
	apiKey     string

	refreshing atomic.Bool
	generation atomic.Uint64

	mu           sync.RWMutex
	health       map[string]ProviderStatus
	lastLocation *ResolvedLocation
}

// NewService creates a new Service. The configured providerID is the one a
// refresh tries first; apiKey is passed to any adapter that requires one.
func NewService(store Store, registry map[string]Adapter, transport Transport, resolver Resolver, providerID, apiKey string) *Service {
	health := make(map[string]ProviderStatus, len(registry))
	for id := range registry {
		health[id] = StatusUntested
	}
	return &Service{
		store:      store,
		registry:   registry,
		transport:  transport,
		resolver:   resolver,
		providerID: providerID,
		apiKey:     apiKey,
		health:     health,
	}
}

// FetchWeather performs a single fetch attempt against one provider: build
// the request, execute it, parse the body. Explicit selection bypasses
// health classification; a provider probed as unhealthy is still attempted.
func (s *Service) FetchWeather(ctx context.Context, loc ResolvedLocation, providerID string) (NormalizedWeather, error) {
	adapter, ok := s.registry[providerID]
	if !ok {
		return NormalizedWeather{}, fmt.Errorf("%w: %q", ErrUnknownProvider, providerID)
	}
	if !loc.Coordinates.Valid() {
		return NormalizedWeather{}, fmt.Errorf("%w: %+v", ErrInvalidCoordinates, loc.Coordinates)
	}

	req, err := adapter.BuildRequest(ctx, loc.Coordinates, s.apiKey)
	if err != nil {
		return NormalizedWeather{}, err
	}

	body, err := s.transport.Fetch(ctx, providerID, req)
	if err != nil {
		return NormalizedWeather{}, err
	}

	snapshot, err := adapter.ParseResponse(body)
	if err != nil {
		return NormalizedWeather{}, err
	}

	snapshot.Location = loc
	snapshot.Provider = providerID
	if snapshot.FetchedAt.IsZero() {
		snapshot.FetchedAt = time.Now().UTC()
	}
	return snapshot, nil
}

// Refresh runs the full pipeline once. Concurrent triggers are coalesced:
// while one refresh is in flight, further calls return ErrRefreshInFlight
// immediately instead of queuing. A completion belonging to a superseded
// cycle is discarded rather than saved.
func (s *Service) Refresh(ctx context.Context) (NormalizedWeather, error) {
	if !s.refreshing.CompareAndSwap(false, true) {
		return NormalizedWeather{}, ErrRefreshInFlight
	}
	defer s.refreshing.Store(false)

	gen := s.generation.Add(1)

	loc, err := s.resolver.Resolve(ctx)
	if err != nil {
		// The built-in resolver cannot fail, but injected ones may.
		return NormalizedWeather{}, fmt.Errorf("%w: %v", ErrNoLocationAvailable, err)
	}

	s.mu.Lock()
	s.lastLocation = &loc
	s.mu.Unlock()

	snapshot, err := s.FetchWeather(ctx, loc, s.providerID)
	if err != nil {
		log.Printf("provider %s fetch failed for %s: %v", s.providerID, loc.Key(), err)
		s.setHealth(s.providerID, classify(err))

		alt, ok := s.pickWorkingAlternate(s.providerID)
		if !ok {
			// No known-working alternate; terminal for this cycle. The last
			// good snapshot in the store stays untouched.
			return NormalizedWeather{}, err
		}

		log.Printf("falling back to provider %s for %s", alt, loc.Key())
		snapshot, err = s.FetchWeather(ctx, loc, alt)
		if err != nil {
			s.setHealth(alt, classify(err))
			return NormalizedWeather{}, err
		}
	}

	s.setHealth(snapshot.Provider, StatusWorking)

	if s.generation.Load() != gen {
		log.Printf("discarding stale refresh result for %s (cycle %d superseded)", loc.Key(), gen)
		return snapshot, nil
	}

	s.store.SaveSnapshot(loc, snapshot)
	return snapshot, nil
}

// ProbeProviders health-checks every registered provider against a fixed
// test coordinate. Probing is advisory: it runs the providers concurrently,
// never blocks a user refresh, and providers needing a key that is not
// configured stay untested.
func (s *Service) ProbeProviders(ctx context.Context) {
	probeLoc := ResolvedLocation{Coordinates: probeCoords, DisplayName: "probe", Source: SourceFallback}

	var wg sync.WaitGroup
	for id, adapter := range s.registry {
		if adapter.RequiresAPIKey() && s.apiKey == "" {
			continue
		}

		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if _, err := s.FetchWeather(ctx, probeLoc, id); err != nil {
				s.setHealth(id, classify(err))
				return
			}
			s.setHealth(id, StatusWorking)
		}(id)
	}
	wg.Wait()
}

// Health returns the current advisory classification of every provider,
// sorted by id for stable output.
func (s *Service) Health() []ProviderHealth {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ProviderHealth, 0, len(s.registry))
	for id, adapter := range s.registry {
		out = append(out, ProviderHealth{
			ID:             id,
			RequiresAPIKey: adapter.RequiresAPIKey(),
			Status:         s.health[id],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LastLocation returns the most recently resolved location, if any. UI
// layers may show it while a new resolution is in flight.
func (s *Service) LastLocation() (ResolvedLocation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastLocation == nil {
		return ResolvedLocation{}, false
	}
	return *s.lastLocation, true
}

// Latest returns the newest stored snapshot for the last resolved location.
func (s *Service) Latest() (NormalizedWeather, error) {
	loc, ok := s.LastLocation()
	if !ok {
		return NormalizedWeather{}, ErrNoLocationAvailable
	}
	return s.store.GetLatest(loc)
}

// GetRange delegates to the underlying store for the last resolved location.
func (s *Service) GetRange(from, to time.Time) ([]NormalizedWeather, error) {
	loc, ok := s.LastLocation()
	if !ok {
		return nil, ErrNoLocationAvailable
	}
	return s.store.GetRange(loc, from, to)
}

func (s *Service) setHealth(id string, status ProviderStatus) {
	s.mu.Lock()
	s.health[id] = status
	s.mu.Unlock()
}

// pickWorkingAlternate returns a provider last classified as working,
// excluding the one that just failed and any keyed provider without a key.
func (s *Service) pickWorkingAlternate(exclude string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.health))
	for id, status := range s.health {
		if id == exclude || status != StatusWorking {
			continue
		}
		if adapter, ok := s.registry[id]; ok && adapter.RequiresAPIKey() && s.apiKey == "" {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return "", false
	}
	sort.Strings(ids)
	return ids[0], true
}

// classify maps a fetch error onto the advisory health taxonomy.
func classify(err error) ProviderStatus {
	if IsTimeout(err) {
		return StatusTimeout
	}
	return StatusError
}
