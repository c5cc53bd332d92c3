package location

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"regexp"
	"strconv"
	"sync"

	"github.com/Sanjai-Shaarugesh/Advanced-Weather-Companion/internal/weather"
)

// Mode selects the resolution strategy.
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeManual Mode = "manual"
)

// coordPattern matches a strict "lat,lon" pair with optional sign and
// decimals.
var coordPattern = regexp.MustCompile(`^([-+]?\d+\.?\d*),\s*([-+]?\d+\.?\d*)$`)

// fallbackLocations guarantee the resolver always produces some location.
var fallbackLocations = []weather.ResolvedLocation{
	{Coordinates: weather.Coordinates{Lat: 37.7749, Lon: -122.4194}, DisplayName: "San Francisco, USA", Source: weather.SourceFallback},
	{Coordinates: weather.Coordinates{Lat: 40.7128, Lon: -74.0060}, DisplayName: "New York, USA", Source: weather.SourceFallback},
	{Coordinates: weather.Coordinates{Lat: 51.5074, Lon: -0.1278}, DisplayName: "London, UK", Source: weather.SourceFallback},
}

// ParseCoordinates applies the strict coordinate pattern. matched reports
// whether the string looks like a coordinate pair at all; when it does but
// the values fall outside [-90,90] x [-180,180], err is
// weather.ErrInvalidCoordinates.
func ParseCoordinates(s string) (coords weather.Coordinates, matched bool, err error) {
	m := coordPattern.FindStringSubmatch(s)
	if m == nil {
		return weather.Coordinates{}, false, nil
	}

	lat, errLat := strconv.ParseFloat(m[1], 64)
	lon, errLon := strconv.ParseFloat(m[2], 64)
	if errLat != nil || errLon != nil {
		return weather.Coordinates{}, false, nil
	}

	coords = weather.Coordinates{Lat: lat, Lon: lon}
	if !coords.Valid() {
		return weather.Coordinates{}, true, fmt.Errorf("%w: %s", weather.ErrInvalidCoordinates, s)
	}
	return coords, true, nil
}

// Config carries the settings the resolver reads as plain values; it does
// not own their storage.
type Config struct {
	Mode           Mode
	ManualLocation string
	GoogleAPIKey   string
}

// Resolver turns user configuration into concrete coordinates, walking
// manual coordinates, forward geocoding, IP auto-detection, and finally a
// built-in fallback list. Resolve never fails and never hangs: every
// network attempt is bounded by the HTTP client timeout and any failure
// advances to the next candidate.
type Resolver struct {
	cfg        Config
	client     *http.Client
	geocode    *GeocodeClient
	ipServices []ipService
	pick       func(n int) int

	mu   sync.RWMutex
	last *weather.ResolvedLocation
}

func NewResolver(cfg Config, client *http.Client) *Resolver {
	return &Resolver{
		cfg:        cfg,
		client:     client,
		geocode:    NewGeocodeClient(client, cfg.GoogleAPIKey),
		ipServices: defaultIPServices(),
		pick:       rand.Intn,
	}
}

// Resolve runs one resolution cycle. The returned error is always nil; the
// signature satisfies weather.Resolver for implementations that can fail.
func (r *Resolver) Resolve(ctx context.Context) (weather.ResolvedLocation, error) {
	loc := r.resolve(ctx)

	r.mu.Lock()
	r.last = &loc
	r.mu.Unlock()

	return loc, nil
}

// Geocoder exposes the underlying geocoding client for surfaces that label
// or search places directly (the preferences API).
func (r *Resolver) Geocoder() *GeocodeClient {
	return r.geocode
}

// Last returns the location from the previous cycle, usable for display
// while a new resolution is in flight.
func (r *Resolver) Last() (weather.ResolvedLocation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.last == nil {
		return weather.ResolvedLocation{}, false
	}
	return *r.last, true
}

func (r *Resolver) resolve(ctx context.Context) weather.ResolvedLocation {
	if r.cfg.Mode == ModeManual {
		if loc, ok := r.resolveManual(ctx); ok {
			return loc
		}
		return r.fallback()
	}

	if loc, ok := r.autoDetect(ctx); ok {
		return loc
	}
	return r.fallback()
}

func (r *Resolver) resolveManual(ctx context.Context) (weather.ResolvedLocation, bool) {
	manual := r.cfg.ManualLocation

	coords, matched, err := ParseCoordinates(manual)
	if matched {
		if err != nil {
			log.Printf("manual location %q rejected: %v", manual, err)
			return weather.ResolvedLocation{}, false
		}
		// Coordinates resolve without any network call; reverse geocoding
		// for a nicer label is the preferences surface's concern.
		return weather.ResolvedLocation{
			Coordinates: coords,
			DisplayName: manual,
			Source:      weather.SourceManual,
		}, true
	}

	results, err := r.geocode.Search(ctx, manual)
	if err != nil || len(results) == 0 {
		log.Printf("geocoding %q failed: %v", manual, err)
		return weather.ResolvedLocation{}, false
	}

	first := results[0]
	return weather.ResolvedLocation{
		Coordinates: first.Coordinates,
		DisplayName: first.DisplayName(),
		Source:      weather.SourceGeocoded,
	}, true
}

func (r *Resolver) autoDetect(ctx context.Context) (weather.ResolvedLocation, bool) {
	for _, svc := range r.ipServices {
		coords, name, err := r.queryIPService(ctx, svc)
		if err != nil {
			log.Printf("geolocation service %s failed: %v", svc.name, err)
			continue
		}
		if !coords.Valid() {
			log.Printf("geolocation service %s returned invalid coordinates %+v", svc.name, coords)
			continue
		}
		return weather.ResolvedLocation{
			Coordinates: coords,
			DisplayName: name,
			Source:      weather.SourceIPAuto,
		}, true
	}
	return weather.ResolvedLocation{}, false
}

func (r *Resolver) queryIPService(ctx context.Context, svc ipService) (weather.Coordinates, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, svc.url, nil)
	if err != nil {
		return weather.Coordinates{}, "", err
	}
	req.Header.Set("User-Agent", "advanced-weather-companion/1.0")

	resp, err := r.client.Do(req)
	if err != nil {
		return weather.Coordinates{}, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return weather.Coordinates{}, "", &weather.NetworkError{Status: resp.StatusCode}
	}

	body, err := readAll(resp.Body)
	if err != nil {
		return weather.Coordinates{}, "", err
	}
	return svc.extract(body)
}

// fallback picks uniformly from the built-in city list.
func (r *Resolver) fallback() weather.ResolvedLocation {
	loc := fallbackLocations[r.pick(len(fallbackLocations))]
	log.Printf("all location sources exhausted; using fallback %s", loc.DisplayName)
	return loc
}
