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

// WeatherAPIAdapter implements the weather.Adapter interface for
// WeatherAPI.com's forecast endpoint, which carries current, hourly, and
// daily blocks in one response.
type WeatherAPIAdapter struct {
	name    string
	baseURL string
	days    int
}

func NewWeatherAPIAdapter() *WeatherAPIAdapter {
	return &WeatherAPIAdapter{
		name:    "weatherapi",
		baseURL: "https://api.weatherapi.com/v1/forecast.json",
		days:    7,
	}
}

func (a *WeatherAPIAdapter) Name() string { return a.name }

func (a *WeatherAPIAdapter) RequiresAPIKey() bool { return true }

func (a *WeatherAPIAdapter) BuildRequest(ctx context.Context, coords weather.Coordinates, apiKey string) (*http.Request, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("weatherapi api key is not configured")
	}

	values := url.Values{}
	values.Set("key", apiKey)
	values.Set("q", fmt.Sprintf("%.6f,%.6f", coords.Lat, coords.Lon))
	values.Set("days", fmt.Sprintf("%d", a.days))
	values.Set("aqi", "no")
	values.Set("alerts", "no")

	u := fmt.Sprintf("%s?%s", a.baseURL, values.Encode())
	return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
}

func (a *WeatherAPIAdapter) ParseResponse(body []byte) (weather.NormalizedWeather, error) {
	var payload struct {
		Current *struct {
			TempC     float64  `json:"temp_c"`
			WindKph   float64  `json:"wind_kph"`
			WindDeg   *float64 `json:"wind_degree"`
			Humidity  *float64 `json:"humidity"`
			Pressure  *float64 `json:"pressure_mb"`
			Condition struct {
				Code int `json:"code"`
			} `json:"condition"`
		} `json:"current"`
		Forecast struct {
			ForecastDay []struct {
				Date string `json:"date"`
				Day  struct {
					MaxTempC  float64 `json:"maxtemp_c"`
					MinTempC  float64 `json:"mintemp_c"`
					Condition struct {
						Code int `json:"code"`
					} `json:"condition"`
				} `json:"day"`
				Hour []struct {
					TimeEpoch    int64    `json:"time_epoch"`
					TempC        float64  `json:"temp_c"`
					WindKph      *float64 `json:"wind_kph"`
					ChanceOfRain *float64 `json:"chance_of_rain"`
					Condition    struct {
						Code int `json:"code"`
					} `json:"condition"`
				} `json:"hour"`
			} `json:"forecastday"`
		} `json:"forecast"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.NormalizedWeather{}, fmt.Errorf("%w: %v", weather.ErrMalformedResponse, err)
	}
	if payload.Current == nil || !finite(payload.Current.TempC) {
		return weather.NormalizedWeather{}, fmt.Errorf("%w: missing current block", weather.ErrMalformedResponse)
	}

	out := weather.NormalizedWeather{
		FetchedAt: time.Now().UTC(),
		Current: weather.CurrentConditions{
			TemperatureC:     payload.Current.TempC,
			HumidityPct:      optional(payload.Current.Humidity),
			PressureHPa:      optional(payload.Current.Pressure),
			WeatherCode:      mapWeatherAPICode(payload.Current.Condition.Code),
			WindSpeedKmh:     payload.Current.WindKph,
			WindDirectionDeg: optional(payload.Current.WindDeg),
		},
	}

	for _, day := range payload.Forecast.ForecastDay {
		for _, h := range day.Hour {
			entry := weather.HourlyEntry{
				Timestamp:         time.Unix(h.TimeEpoch, 0).UTC(),
				TemperatureC:      h.TempC,
				WeatherCode:       mapWeatherAPICode(h.Condition.Code),
				PrecipProbability: optional(h.ChanceOfRain),
				WindSpeedKmh:      optional(h.WindKph),
			}
			out.Hourly = append(out.Hourly, entry)
		}

		d, err := time.Parse("2006-01-02", day.Date)
		if err != nil {
			continue
		}
		out.Daily = append(out.Daily, weather.DailyEntry{
			Date:            d,
			WeatherCode:     mapWeatherAPICode(day.Day.Condition.Code),
			TemperatureMaxC: day.Day.MaxTempC,
			TemperatureMinC: day.Day.MinTempC,
		})
	}

	return out, nil
}

// weatherAPICodeTable translates WeatherAPI.com condition codes into the
// shared WMO space. Unmapped codes fall back to 0 ("Clear").
var weatherAPICodeTable = map[int]int{
	1000: 0,  // Sunny / Clear
	1003: 1,  // Partly cloudy
	1006: 2,  // Cloudy
	1009: 3,  // Overcast
	1030: 45, // Mist
	1063: 80, // Patchy rain possible
	1066: 85, // Patchy snow possible
	1087: 95, // Thundery outbreaks
	1114: 85, // Blowing snow
	1117: 86, // Blizzard
	1135: 45, // Fog
	1147: 48, // Freezing fog
	1150: 51, // Patchy light drizzle
	1153: 51, // Light drizzle
	1168: 53, // Freezing drizzle
	1171: 55, // Heavy freezing drizzle
	1180: 80, // Patchy light rain
	1183: 61, // Light rain
	1186: 63, // Moderate rain at times
	1189: 63, // Moderate rain
	1192: 82, // Heavy rain at times
	1195: 65, // Heavy rain
	1210: 71, // Patchy light snow
	1213: 71, // Light snow
	1216: 73, // Patchy moderate snow
	1219: 73, // Moderate snow
	1222: 75, // Patchy heavy snow
	1225: 75, // Heavy snow
	1237: 77, // Ice pellets
	1240: 80, // Light rain shower
	1243: 81, // Moderate or heavy rain shower
	1246: 82, // Torrential rain shower
	1255: 85, // Light snow showers
	1258: 86, // Moderate or heavy snow showers
	1273: 95, // Patchy light rain with thunder
	1276: 95, // Moderate or heavy rain with thunder
	1279: 96, // Patchy light snow with thunder
	1282: 99, // Moderate or heavy snow with thunder
}

func mapWeatherAPICode(code int) int {
	if mapped, ok := weatherAPICodeTable[code]; ok {
		return mapped
	}
	return 0
}
