package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Sanjai-Shaarugesh/Advanced-Weather-Companion/internal/weather"
)

// OpenWeatherAdapter implements the weather.Adapter interface for
// OpenWeatherMap's current-weather endpoint. The API reports wind in m/s and
// its own condition-id space; both are normalized at parse time.
type OpenWeatherAdapter struct {
	name    string
	baseURL string
}

func NewOpenWeatherAdapter() *OpenWeatherAdapter {
	return &OpenWeatherAdapter{
		name:    "openweathermap",
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
	}
}

func (a *OpenWeatherAdapter) Name() string { return a.name }

func (a *OpenWeatherAdapter) RequiresAPIKey() bool { return true }

func (a *OpenWeatherAdapter) BuildRequest(ctx context.Context, coords weather.Coordinates, apiKey string) (*http.Request, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openweathermap api key is not configured")
	}

	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%.6f", coords.Lat))
	values.Set("lon", fmt.Sprintf("%.6f", coords.Lon))
	values.Set("appid", apiKey)
	values.Set("units", "metric")

	u := fmt.Sprintf("%s?%s", a.baseURL, values.Encode())
	return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
}

func (a *OpenWeatherAdapter) ParseResponse(body []byte) (weather.NormalizedWeather, error) {
	var payload struct {
		Dt   int64 `json:"dt"`
		Main *struct {
			Temp     float64  `json:"temp"`
			Humidity *float64 `json:"humidity"`
			Pressure *float64 `json:"pressure"`
		} `json:"main"`
		Wind struct {
			Speed float64  `json:"speed"`
			Deg   *float64 `json:"deg"`
		} `json:"wind"`
		Weather []struct {
			ID int `json:"id"`
		} `json:"weather"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.NormalizedWeather{}, fmt.Errorf("%w: %v", weather.ErrMalformedResponse, err)
	}
	if payload.Main == nil || !finite(payload.Main.Temp) {
		return weather.NormalizedWeather{}, fmt.Errorf("%w: missing main block", weather.ErrMalformedResponse)
	}

	code := 0
	if len(payload.Weather) > 0 {
		code = mapOpenWeatherCode(payload.Weather[0].ID)
	}

	fetched := time.Now().UTC()
	if payload.Dt > 0 {
		fetched = time.Unix(payload.Dt, 0).UTC()
	}

	return weather.NormalizedWeather{
		FetchedAt: fetched,
		Current: weather.CurrentConditions{
			TemperatureC:     payload.Main.Temp,
			HumidityPct:      optional(payload.Main.Humidity),
			PressureHPa:      optional(payload.Main.Pressure),
			WeatherCode:      code,
			WindSpeedKmh:     payload.Wind.Speed * 3.6, // m/s to km/h
			WindDirectionDeg: optional(payload.Wind.Deg),
		},
		// The free current-weather endpoint carries no forecast blocks.
	}, nil
}

// mapOpenWeatherCode translates OpenWeatherMap condition ids into the shared
// WMO space. Unmapped ids fall through to 0 ("Clear"), a deliberately lossy
// default.
func mapOpenWeatherCode(id int) int {
	switch {
	case id >= 200 && id < 300:
		return 95
	case id >= 300 && id < 310:
		return 51
	case id >= 310 && id < 400:
		return 55
	case id == 500:
		return 61
	case id == 501:
		return 63
	case id >= 502 && id < 520:
		return 65
	case id >= 520 && id < 600:
		return 80
	case id == 600:
		return 71
	case id == 601:
		return 73
	case id == 602:
		return 75
	case id >= 611 && id < 620:
		return 77
	case id >= 620 && id < 700:
		return 85
	case id >= 700 && id < 800:
		return 45
	case id == 800:
		return 0
	case id == 801:
		return 1
	case id == 802:
		return 2
	case id == 803 || id == 804:
		return 3
	default:
		return 0
	}
}
