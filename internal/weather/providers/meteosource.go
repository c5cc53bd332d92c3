package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Sanjai-Shaarugesh/Advanced-Weather-Companion/internal/common"
	"github.com/Sanjai-Shaarugesh/Advanced-Weather-Companion/internal/weather"
)

// MeteosourceAdapter implements the weather.Adapter interface for the
// Meteosource point API. Wind is reported in m/s; conditions come as icon
// numbers with a textual summary used as fallback.
type MeteosourceAdapter struct {
	name    string
	baseURL string
}

func NewMeteosourceAdapter() *MeteosourceAdapter {
	return &MeteosourceAdapter{
		name:    "meteosource",
		baseURL: "https://www.meteosource.com/api/v1/free/point",
	}
}

func (a *MeteosourceAdapter) Name() string { return a.name }

func (a *MeteosourceAdapter) RequiresAPIKey() bool { return true }

func (a *MeteosourceAdapter) BuildRequest(ctx context.Context, coords weather.Coordinates, apiKey string) (*http.Request, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("meteosource api key is not configured")
	}

	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%.6f", coords.Lat))
	values.Set("lon", fmt.Sprintf("%.6f", coords.Lon))
	values.Set("sections", "current,hourly,daily")
	values.Set("units", "metric")
	values.Set("key", apiKey)

	u := fmt.Sprintf("%s?%s", a.baseURL, values.Encode())
	return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
}

func (a *MeteosourceAdapter) ParseResponse(body []byte) (weather.NormalizedWeather, error) {
	var payload struct {
		Current *struct {
			Temperature float64 `json:"temperature"`
			IconNum     int     `json:"icon_num"`
			Summary     string  `json:"summary"`
			Wind        struct {
				Speed float64  `json:"speed"`
				Angle *float64 `json:"angle"`
			} `json:"wind"`
			Humidity *float64 `json:"humidity"`
			Pressure *float64 `json:"pressure"`
		} `json:"current"`
		Hourly struct {
			Data []struct {
				Date        string  `json:"date"`
				Temperature float64 `json:"temperature"`
				IconNum     int     `json:"icon_num"`
				Summary     string  `json:"summary"`
				Wind        struct {
					Speed *float64 `json:"speed"`
				} `json:"wind"`
				Precipitation struct {
					Probability *float64 `json:"probability"`
				} `json:"precipitation"`
			} `json:"data"`
		} `json:"hourly"`
		Daily struct {
			Data []struct {
				Day    string `json:"day"`
				AllDay struct {
					IconNum        int     `json:"icon_num"`
					Summary        string  `json:"summary"`
					TemperatureMax float64 `json:"temperature_max"`
					TemperatureMin float64 `json:"temperature_min"`
				} `json:"all_day"`
			} `json:"data"`
		} `json:"daily"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.NormalizedWeather{}, fmt.Errorf("%w: %v", weather.ErrMalformedResponse, err)
	}
	if payload.Current == nil || !finite(payload.Current.Temperature) {
		return weather.NormalizedWeather{}, fmt.Errorf("%w: missing current section", weather.ErrMalformedResponse)
	}

	out := weather.NormalizedWeather{
		FetchedAt: time.Now().UTC(),
		Current: weather.CurrentConditions{
			TemperatureC:     payload.Current.Temperature,
			HumidityPct:      optional(payload.Current.Humidity),
			PressureHPa:      optional(payload.Current.Pressure),
			WeatherCode:      mapMeteosourceCode(payload.Current.IconNum, payload.Current.Summary),
			WindSpeedKmh:     payload.Current.Wind.Speed * 3.6,
			WindDirectionDeg: optional(payload.Current.Wind.Angle),
		},
	}

	for _, h := range payload.Hourly.Data {
		t, err := parseOpenMeteoTime(h.Date)
		if err != nil {
			continue
		}
		entry := weather.HourlyEntry{
			Timestamp:         t,
			TemperatureC:      h.Temperature,
			WeatherCode:       mapMeteosourceCode(h.IconNum, h.Summary),
			PrecipProbability: optional(h.Precipitation.Probability),
		}
		if s := optional(h.Wind.Speed); s != nil {
			kmh := *s * 3.6
			entry.WindSpeedKmh = &kmh
		}
		out.Hourly = append(out.Hourly, entry)
	}

	for _, d := range payload.Daily.Data {
		day, err := time.Parse("2006-01-02", d.Day)
		if err != nil {
			continue
		}
		out.Daily = append(out.Daily, weather.DailyEntry{
			Date:            day,
			WeatherCode:     mapMeteosourceCode(d.AllDay.IconNum, d.AllDay.Summary),
			TemperatureMaxC: d.AllDay.TemperatureMax,
			TemperatureMinC: d.AllDay.TemperatureMin,
		})
	}

	return out, nil
}

// meteosourceIconTable translates Meteosource icon numbers into the shared
// WMO space.
var meteosourceIconTable = map[int]int{
	1:  0,  // Not available, assume clear
	2:  0,  // Sunny
	3:  1,  // Mostly sunny
	4:  2,  // Partly sunny
	5:  2,  // Mostly cloudy
	6:  3,  // Cloudy
	7:  3,  // Overcast
	8:  3,  // Overcast with low clouds
	9:  45, // Fog
	10: 61, // Light rain
	11: 63, // Rain
	12: 80, // Possible rain
	13: 81, // Rain shower
	14: 95, // Thunderstorm
	15: 95, // Local thunderstorms
	16: 71, // Light snow
	17: 73, // Snow
	18: 85, // Possible snow
	19: 85, // Snow shower
	20: 77, // Rain and snow
	21: 77, // Possible rain and snow
	22: 77, // Freezing rain
	23: 55, // Possible freezing rain
	24: 48, // Hail
	25: 0,  // Clear (night)
	26: 1,  // Mostly clear (night)
	27: 2,  // Partly clear (night)
	28: 2,  // Mostly cloudy (night)
	29: 3,  // Cloudy (night)
	30: 3,  // Overcast with low clouds (night)
	31: 80, // Rain shower (night)
	32: 95, // Local thunderstorms (night)
	33: 85, // Snow shower (night)
	34: 77, // Rain and snow (night)
	35: 55, // Possible freezing rain (night)
}

// mapMeteosourceCode maps an icon number, falling back to keyword matching
// on the summary text for icons not in the table.
func mapMeteosourceCode(iconNum int, summary string) int {
	if code, ok := meteosourceIconTable[iconNum]; ok {
		return code
	}

	s := strings.ToLower(summary)
	switch {
	case common.HasAny(s, "thunder", "storm"):
		return 95
	case common.HasAny(s, "snow", "sleet"):
		return 73
	case common.HasAny(s, "drizzle"):
		return 53
	case common.HasAny(s, "rain", "shower"):
		return 63
	case common.HasAny(s, "fog", "mist", "haze"):
		return 45
	case common.HasAny(s, "overcast"):
		return 3
	case common.HasAny(s, "cloud"):
		return 2
	default:
		return 0
	}
}
