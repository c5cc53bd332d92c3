package providers

import (
	"github.com/Sanjai-Shaarugesh/Advanced-Weather-Companion/internal/weather"
)

// NewRegistry builds the fixed provider registry keyed by id. The custom
// adapter is only registered when a URL template is configured.
func NewRegistry(customURLTemplate string) map[string]weather.Adapter {
	registry := map[string]weather.Adapter{}

	for _, a := range []weather.Adapter{
		NewOpenMeteoAdapter(),
		NewMeteosourceAdapter(),
		NewWttrAdapter(),
		NewOpenWeatherAdapter(),
		NewWeatherAPIAdapter(),
	} {
		registry[a.Name()] = a
	}

	if customURLTemplate != "" {
		custom := NewCustomAdapter(customURLTemplate)
		registry[custom.Name()] = custom
	}

	return registry
}
