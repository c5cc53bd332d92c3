package providers

import (
	"context"
	"errors"
	"io"
	"math"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/Sanjai-Shaarugesh/Advanced-Weather-Companion/internal/weather"
)

// BackoffConfig controls exponential backoff behaviour.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultBackoff matches the per-provider retry policy used across adapters.
var DefaultBackoff = BackoffConfig{
	MaxRetries:      2,
	InitialInterval: 500 * time.Millisecond,
	MaxInterval:     5 * time.Second,
}

// Transport executes provider requests with a per-provider rate limiter,
// circuit breaker, and exponential backoff retries. All failures surface as
// *weather.NetworkError so the orchestrator can classify them.
type Transport struct {
	client  *http.Client
	backoff BackoffConfig

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
	limiters map[string]*rate.Limiter

	rps   rate.Limit
	burst int
}

// NewTransport creates a Transport over the shared HTTP client.
func NewTransport(client *http.Client) *Transport {
	return &Transport{
		client:   client,
		backoff:  DefaultBackoff,
		breakers: make(map[string]*gobreaker.CircuitBreaker),
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(1),
		burst:    3,
	}
}

func (t *Transport) breaker(providerID string) *gobreaker.CircuitBreaker {
	t.mu.Lock()
	defer t.mu.Unlock()

	cb, ok := t.breakers[providerID]
	if !ok {
		cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        providerID,
			MaxRequests: 5,
			Interval:    1 * time.Minute,
			Timeout:     2 * time.Minute,
		})
		t.breakers[providerID] = cb
	}
	return cb
}

func (t *Transport) limiter(providerID string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	l, ok := t.limiters[providerID]
	if !ok {
		l = rate.NewLimiter(t.rps, t.burst)
		t.limiters[providerID] = l
	}
	return l
}

// Fetch executes the request and returns the response body. Retries apply to
// rate-limited responses, server errors, and transport failures; other
// non-2xx statuses fail immediately.
func (t *Transport) Fetch(ctx context.Context, providerID string, req *http.Request) ([]byte, error) {
	if err := t.limiter(providerID).Wait(ctx); err != nil {
		return nil, asNetworkError(err)
	}

	cb := t.breaker(providerID)

	var attempt int
	for {
		if ctx.Err() != nil {
			return nil, asNetworkError(ctx.Err())
		}

		result, err := cb.Execute(func() (interface{}, error) {
			resp, execErr := t.client.Do(req.Clone(ctx))
			if execErr != nil {
				return nil, execErr
			}
			defer resp.Body.Close()

			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				return nil, &weather.NetworkError{Status: resp.StatusCode}
			}

			body, readErr := io.ReadAll(resp.Body)
			if readErr != nil {
				return nil, readErr
			}
			return body, nil
		})
		if err == nil {
			return result.([]byte), nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &weather.NetworkError{}
		}

		if !retryable(err) || attempt >= t.backoff.MaxRetries {
			return nil, asNetworkError(err)
		}

		delay := t.backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if t.backoff.MaxInterval > 0 && delay > t.backoff.MaxInterval {
			delay = t.backoff.MaxInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, asNetworkError(ctx.Err())
		case <-timer.C:
		}
		attempt++
	}
}

// retryable reports whether a failed attempt is worth repeating: server
// errors, throttling, and transport-level failures are; client errors are
// not.
func retryable(err error) bool {
	var ne *weather.NetworkError
	if errors.As(err, &ne) {
		return ne.Status == http.StatusTooManyRequests || ne.Status >= 500
	}
	return true
}

// asNetworkError folds any transport failure into the shared taxonomy.
func asNetworkError(err error) *weather.NetworkError {
	var ne *weather.NetworkError
	if errors.As(err, &ne) {
		return ne
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &weather.NetworkError{Timeout: true}
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return &weather.NetworkError{Timeout: true}
	}
	return &weather.NetworkError{}
}

// finite reports whether v is a usable number.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// optional keeps a decoded pointer field only when it holds a finite value.
func optional(p *float64) *float64 {
	if p == nil || !finite(*p) {
		return nil
	}
	return p
}
