package weather

import (
	"context"
	"net/http"
)

// Adapter is one weather provider's request-building and response-parsing
// strategy. Adapters are stateless: transport, retries, and health tracking
// live outside them. ParseResponse converts the provider's JSON into the
// normalized schema and returns ErrMalformedResponse (possibly wrapped) when
// the minimal current-conditions block is missing; it never handles
// network-level failures.
type Adapter interface {
	Name() string
	RequiresAPIKey() bool
	BuildRequest(ctx context.Context, coords Coordinates, apiKey string) (*http.Request, error)
	ParseResponse(body []byte) (NormalizedWeather, error)
}

// Transport executes a provider request with whatever resilience policy the
// implementation carries and returns the response body. Failures come back
// as *NetworkError.
type Transport interface {
	Fetch(ctx context.Context, providerID string, req *http.Request) ([]byte, error)
}

// Resolver turns user configuration into a concrete location. Implementations
// must not fail: exhausting every source ends in a built-in fallback.
type Resolver interface {
	Resolve(ctx context.Context) (ResolvedLocation, error)
}

// ProviderStatus classifies a provider's last known health.
type ProviderStatus string

const (
	StatusWorking  ProviderStatus = "working"
	StatusError    ProviderStatus = "error"
	StatusTimeout  ProviderStatus = "timeout"
	StatusUntested ProviderStatus = "untested"
)

// ProviderHealth is the advisory classification produced by probing.
type ProviderHealth struct {
	ID             string         `json:"id"`
	RequiresAPIKey bool           `json:"requiresApiKey"`
	Status         ProviderStatus `json:"status"`
}
