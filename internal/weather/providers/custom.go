package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Sanjai-Shaarugesh/Advanced-Weather-Companion/internal/weather"
)

// CustomAdapter implements the weather.Adapter interface for a user-supplied
// URL template pointing at any Open-Meteo-compatible endpoint (for example a
// self-hosted instance). The template must contain {lat} and {lon}
// placeholders; an optional {key} placeholder receives the API key.
type CustomAdapter struct {
	name     string
	template string
	parser   *OpenMeteoAdapter
}

func NewCustomAdapter(urlTemplate string) *CustomAdapter {
	return &CustomAdapter{
		name:     "custom",
		template: urlTemplate,
		parser:   NewOpenMeteoAdapter(),
	}
}

func (a *CustomAdapter) Name() string { return a.name }

func (a *CustomAdapter) RequiresAPIKey() bool {
	return strings.Contains(a.template, "{key}")
}

func (a *CustomAdapter) BuildRequest(ctx context.Context, coords weather.Coordinates, apiKey string) (*http.Request, error) {
	if a.template == "" {
		return nil, fmt.Errorf("custom provider url template is not configured")
	}
	if !strings.Contains(a.template, "{lat}") || !strings.Contains(a.template, "{lon}") {
		return nil, fmt.Errorf("custom provider url template must contain {lat} and {lon}")
	}
	if a.RequiresAPIKey() && apiKey == "" {
		return nil, fmt.Errorf("custom provider api key is not configured")
	}

	u := strings.NewReplacer(
		"{lat}", fmt.Sprintf("%.6f", coords.Lat),
		"{lon}", fmt.Sprintf("%.6f", coords.Lon),
		"{key}", apiKey,
	).Replace(a.template)

	return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
}

func (a *CustomAdapter) ParseResponse(body []byte) (weather.NormalizedWeather, error) {
	return a.parser.ParseResponse(body)
}
