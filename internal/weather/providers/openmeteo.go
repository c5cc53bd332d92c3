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

// OpenMeteoAdapter implements the weather.Adapter interface for Open-Meteo.
// Its weather codes are the shared WMO convention, so no remapping happens.
type OpenMeteoAdapter struct {
	name    string
	baseURL string
}

func NewOpenMeteoAdapter() *OpenMeteoAdapter {
	return &OpenMeteoAdapter{
		name:    "openmeteo",
		baseURL: "https://api.open-meteo.com/v1/forecast",
	}
}

func (a *OpenMeteoAdapter) Name() string { return a.name }

func (a *OpenMeteoAdapter) RequiresAPIKey() bool { return false }

func (a *OpenMeteoAdapter) BuildRequest(ctx context.Context, coords weather.Coordinates, _ string) (*http.Request, error) {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%.6f", coords.Lat))
	values.Set("longitude", fmt.Sprintf("%.6f", coords.Lon))
	values.Set("current_weather", "true")
	values.Set("hourly", "temperature_2m,weathercode,precipitation_probability,windspeed_10m")
	values.Set("daily", "weathercode,temperature_2m_max,temperature_2m_min")
	values.Set("timezone", "UTC")

	u := fmt.Sprintf("%s?%s", a.baseURL, values.Encode())
	return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
}

func (a *OpenMeteoAdapter) ParseResponse(body []byte) (weather.NormalizedWeather, error) {
	var payload struct {
		CurrentWeather *struct {
			Temperature   float64  `json:"temperature"`
			WindSpeed     float64  `json:"windspeed"`
			WindDirection *float64 `json:"winddirection"`
			WeatherCode   int      `json:"weathercode"`
			Time          string   `json:"time"`
		} `json:"current_weather"`
		Hourly struct {
			Time        []string   `json:"time"`
			Temperature []float64  `json:"temperature_2m"`
			WeatherCode []int      `json:"weathercode"`
			PrecipProb  []*float64 `json:"precipitation_probability"`
			WindSpeed   []*float64 `json:"windspeed_10m"`
		} `json:"hourly"`
		Daily struct {
			Time        []string  `json:"time"`
			WeatherCode []int     `json:"weathercode"`
			TempMax     []float64 `json:"temperature_2m_max"`
			TempMin     []float64 `json:"temperature_2m_min"`
		} `json:"daily"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.NormalizedWeather{}, fmt.Errorf("%w: %v", weather.ErrMalformedResponse, err)
	}
	if payload.CurrentWeather == nil || !finite(payload.CurrentWeather.Temperature) {
		return weather.NormalizedWeather{}, fmt.Errorf("%w: missing current_weather", weather.ErrMalformedResponse)
	}

	out := weather.NormalizedWeather{
		FetchedAt: time.Now().UTC(),
		Current: weather.CurrentConditions{
			TemperatureC:     payload.CurrentWeather.Temperature,
			WeatherCode:      payload.CurrentWeather.WeatherCode,
			WindSpeedKmh:     payload.CurrentWeather.WindSpeed,
			WindDirectionDeg: optional(payload.CurrentWeather.WindDirection),
		},
	}

	for i, ts := range payload.Hourly.Time {
		if i >= len(payload.Hourly.Temperature) || i >= len(payload.Hourly.WeatherCode) {
			break
		}
		t, err := parseOpenMeteoTime(ts)
		if err != nil {
			continue
		}
		entry := weather.HourlyEntry{
			Timestamp:    t,
			TemperatureC: payload.Hourly.Temperature[i],
			WeatherCode:  payload.Hourly.WeatherCode[i],
		}
		if i < len(payload.Hourly.PrecipProb) {
			entry.PrecipProbability = optional(payload.Hourly.PrecipProb[i])
		}
		if i < len(payload.Hourly.WindSpeed) {
			entry.WindSpeedKmh = optional(payload.Hourly.WindSpeed[i])
		}
		out.Hourly = append(out.Hourly, entry)
	}

	for i, ds := range payload.Daily.Time {
		if i >= len(payload.Daily.WeatherCode) || i >= len(payload.Daily.TempMax) || i >= len(payload.Daily.TempMin) {
			break
		}
		d, err := time.Parse("2006-01-02", ds)
		if err != nil {
			continue
		}
		out.Daily = append(out.Daily, weather.DailyEntry{
			Date:            d,
			WeatherCode:     payload.Daily.WeatherCode[i],
			TemperatureMaxC: payload.Daily.TempMax[i],
			TemperatureMinC: payload.Daily.TempMin[i],
		})
	}

	return out, nil
}

// parseOpenMeteoTime accepts the API's "2006-01-02T15:04" stamps as well as
// full RFC3339.
func parseOpenMeteoTime(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02T15:04", s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
