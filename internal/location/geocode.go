package location

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/kelvins/geocoder"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Sanjai-Shaarugesh/Advanced-Weather-Companion/internal/weather"
)

const (
	geocodingURL        = "https://geocoding-api.open-meteo.com/v1/search"
	reverseGeocodingURL = "https://api.bigdatacloud.net/data/reverse-geocode-client"
)

var titleCaser = cases.Title(language.English)

// GeocodeResult is one ranked candidate for a free-text place query.
type GeocodeResult struct {
	Name        string
	Country     string
	Admin1      string
	Coordinates weather.Coordinates
}

// DisplayName renders the candidate the way the panel shows locations.
func (g GeocodeResult) DisplayName() string {
	if g.Country == "" {
		return g.Name
	}
	return g.Name + ", " + g.Country
}

// GeocodeClient talks to the forward and reverse geocoding endpoints. When a
// Google API key is configured it serves as a secondary forward-geocoding
// source.
type GeocodeClient struct {
	client     *http.Client
	searchURL  string
	reverseURL string
	googleKey  string
}

func NewGeocodeClient(client *http.Client, googleAPIKey string) *GeocodeClient {
	if googleAPIKey != "" {
		geocoder.ApiKey = googleAPIKey
	}
	return &GeocodeClient{
		client:     client,
		searchURL:  geocodingURL,
		reverseURL: reverseGeocodingURL,
		googleKey:  googleAPIKey,
	}
}

// Search resolves a free-text place name to ranked candidates. The primary
// source is the Open-Meteo geocoding API; on failure or an empty result set
// the Google geocoder is consulted if a key is configured.
func (g *GeocodeClient) Search(ctx context.Context, query string) ([]GeocodeResult, error) {
	results, err := g.searchOpenMeteo(ctx, query)
	if err == nil && len(results) > 0 {
		return results, nil
	}

	if g.googleKey != "" {
		if gr, gerr := g.searchGoogle(query); gerr == nil {
			return []GeocodeResult{gr}, nil
		}
	}

	if err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("no geocoding results for %q", query)
}

func (g *GeocodeClient) searchOpenMeteo(ctx context.Context, query string) ([]GeocodeResult, error) {
	values := url.Values{}
	values.Set("name", query)
	values.Set("count", "10")
	values.Set("language", "en")
	values.Set("format", "json")

	u := fmt.Sprintf("%s?%s", g.searchURL, values.Encode())
	body, err := g.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Results []struct {
			Name      string  `json:"name"`
			Country   string  `json:"country"`
			Admin1    string  `json:"admin1"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", weather.ErrMalformedResponse, err)
	}

	out := make([]GeocodeResult, 0, len(payload.Results))
	for _, r := range payload.Results {
		coords := weather.Coordinates{Lat: r.Latitude, Lon: r.Longitude}
		if !coords.Valid() {
			continue
		}
		out = append(out, GeocodeResult{
			Name:        r.Name,
			Country:     r.Country,
			Admin1:      r.Admin1,
			Coordinates: coords,
		})
	}
	return out, nil
}

func (g *GeocodeClient) searchGoogle(query string) (GeocodeResult, error) {
	loc, err := geocoder.Geocoding(geocoder.Address{City: query})
	if err != nil {
		return GeocodeResult{}, err
	}
	coords := weather.Coordinates{Lat: loc.Latitude, Lon: loc.Longitude}
	if !coords.Valid() {
		return GeocodeResult{}, weather.ErrInvalidCoordinates
	}
	return GeocodeResult{
		Name:        titleCaser.String(query),
		Coordinates: coords,
	}, nil
}

// Reverse labels a coordinate pair with a human-readable place description.
// It is best-effort: callers fall back to the raw coordinate string.
func (g *GeocodeClient) Reverse(ctx context.Context, coords weather.Coordinates) (string, error) {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%.6f", coords.Lat))
	values.Set("longitude", fmt.Sprintf("%.6f", coords.Lon))
	values.Set("localityLanguage", "en")

	u := fmt.Sprintf("%s?%s", g.reverseURL, values.Encode())
	body, err := g.get(ctx, u)
	if err != nil {
		return "", err
	}

	var payload struct {
		Locality             string `json:"locality"`
		City                 string `json:"city"`
		PrincipalSubdivision string `json:"principalSubdivision"`
		CountryName          string `json:"countryName"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("%w: %v", weather.ErrMalformedResponse, err)
	}

	var parts []string
	switch {
	case payload.Locality != "":
		parts = append(parts, payload.Locality)
	case payload.City != "":
		parts = append(parts, payload.City)
	}
	if payload.PrincipalSubdivision != "" {
		parts = append(parts, payload.PrincipalSubdivision)
	}
	if payload.CountryName != "" {
		parts = append(parts, payload.CountryName)
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("reverse geocoding returned no place description")
	}
	return strings.Join(parts, ", "), nil
}

func (g *GeocodeClient) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "advanced-weather-companion/1.0")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &weather.NetworkError{Status: resp.StatusCode}
	}

	return readAll(resp.Body)
}
