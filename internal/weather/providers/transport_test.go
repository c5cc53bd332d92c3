package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Sanjai-Shaarugesh/Advanced-Weather-Companion/internal/weather"
)

func newFastTransport(client *http.Client) *Transport {
	tr := NewTransport(client)
	tr.backoff = BackoffConfig{MaxRetries: 0, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}
	return tr
}

func requestTo(t *testing.T, url string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	return req
}

func TestTransportReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tr := newFastTransport(srv.Client())
	body, err := tr.Fetch(context.Background(), "test", requestTo(t, srv.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Errorf("unexpected body %q", body)
	}
}

func TestTransportSurfacesStatusCodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	tr := newFastTransport(srv.Client())
	_, err := tr.Fetch(context.Background(), "test", requestTo(t, srv.URL))

	var ne *weather.NetworkError
	if !errors.As(err, &ne) || ne.Status != http.StatusInternalServerError {
		t.Fatalf("expected NetworkError 500, got %v", err)
	}
}

func TestTransportClientErrorsDoNotRetry(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	tr := NewTransport(srv.Client())
	tr.backoff = BackoffConfig{MaxRetries: 3, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}

	_, err := tr.Fetch(context.Background(), "test", requestTo(t, srv.URL))

	var ne *weather.NetworkError
	if !errors.As(err, &ne) || ne.Status != http.StatusNotFound {
		t.Fatalf("expected NetworkError 404, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected a single attempt for a 404, got %d", calls)
	}
}

func TestTransportTimeoutClassification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := srv.Client()
	client.Timeout = 20 * time.Millisecond

	tr := newFastTransport(client)
	_, err := tr.Fetch(context.Background(), "test", requestTo(t, srv.URL))

	if !weather.IsTimeout(err) {
		t.Fatalf("expected timeout classification, got %v", err)
	}
}
