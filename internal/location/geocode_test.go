package location

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Sanjai-Shaarugesh/Advanced-Weather-Companion/internal/weather"
)

func TestSearchSkipsInvalidCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"results":[
			{"name":"Nowhere","country":"XX","latitude":120,"longitude":0},
			{"name":"London","country":"United Kingdom","admin1":"England","latitude":51.5074,"longitude":-0.1278}
		]}`))
	}))
	defer srv.Close()

	g := NewGeocodeClient(srv.Client(), "")
	g.searchURL = srv.URL

	results, err := g.Search(context.Background(), "london")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected the out-of-range candidate dropped, got %d results", len(results))
	}
	if results[0].DisplayName() != "London, United Kingdom" {
		t.Errorf("unexpected display name %q", results[0].DisplayName())
	}
}

func TestSearchEmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	g := NewGeocodeClient(srv.Client(), "")
	g.searchURL = srv.URL

	if _, err := g.Search(context.Background(), "xyzzy"); err == nil {
		t.Fatal("expected error for empty result set")
	}
}

func TestReverseJoinsPlaceParts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"locality":"Westminster","principalSubdivision":"England","countryName":"United Kingdom"}`))
	}))
	defer srv.Close()

	g := NewGeocodeClient(srv.Client(), "")
	g.reverseURL = srv.URL

	name, err := g.Reverse(context.Background(), weather.Coordinates{Lat: 51.5, Lon: -0.13})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Westminster, England, United Kingdom" {
		t.Errorf("unexpected place description %q", name)
	}
}

func TestReverseEmptyDescriptionFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	g := NewGeocodeClient(srv.Client(), "")
	g.reverseURL = srv.URL

	if _, err := g.Reverse(context.Background(), weather.Coordinates{}); err == nil {
		t.Fatal("expected error when no place parts are present")
	}
}
