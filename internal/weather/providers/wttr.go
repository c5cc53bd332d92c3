package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Sanjai-Shaarugesh/Advanced-Weather-Companion/internal/weather"
)

// WttrAdapter implements the weather.Adapter interface for wttr.in's JSON
// endpoint. The service needs no key and reports WWO condition codes, which
// are remapped into the shared WMO space.
type WttrAdapter struct {
	name    string
	baseURL string
}

func NewWttrAdapter() *WttrAdapter {
	return &WttrAdapter{
		name:    "wttr",
		baseURL: "https://wttr.in",
	}
}

func (a *WttrAdapter) Name() string { return a.name }

func (a *WttrAdapter) RequiresAPIKey() bool { return false }

func (a *WttrAdapter) BuildRequest(ctx context.Context, coords weather.Coordinates, _ string) (*http.Request, error) {
	u := fmt.Sprintf("%s/%.4f,%.4f?format=j1", a.baseURL, coords.Lat, coords.Lon)
	return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
}

// wttr returns every numeric field as a string.
type wttrCurrent struct {
	TempC        string `json:"temp_C"`
	WindSpeedKmh string `json:"windspeedKmph"`
	WindDirDeg   string `json:"winddirDegree"`
	Humidity     string `json:"humidity"`
	Pressure     string `json:"pressure"`
	WeatherCode  string `json:"weatherCode"`
}

type wttrDay struct {
	Date     string `json:"date"`
	MaxTempC string `json:"maxtempC"`
	MinTempC string `json:"mintempC"`
	Hourly   []struct {
		Time         string `json:"time"` // minutes-of-day stamps: "0", "300", ... "2100"
		TempC        string `json:"tempC"`
		WeatherCode  string `json:"weatherCode"`
		ChanceOfRain string `json:"chanceofrain"`
		WindSpeedKmh string `json:"windspeedKmph"`
	} `json:"hourly"`
}

func (a *WttrAdapter) ParseResponse(body []byte) (weather.NormalizedWeather, error) {
	var payload struct {
		CurrentCondition []wttrCurrent `json:"current_condition"`
		Weather          []wttrDay     `json:"weather"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.NormalizedWeather{}, fmt.Errorf("%w: %v", weather.ErrMalformedResponse, err)
	}
	if len(payload.CurrentCondition) == 0 {
		return weather.NormalizedWeather{}, fmt.Errorf("%w: missing current_condition", weather.ErrMalformedResponse)
	}

	cur := payload.CurrentCondition[0]
	temp, err := strconv.ParseFloat(cur.TempC, 64)
	if err != nil || !finite(temp) {
		return weather.NormalizedWeather{}, fmt.Errorf("%w: bad temp_C %q", weather.ErrMalformedResponse, cur.TempC)
	}
	wind, _ := strconv.ParseFloat(cur.WindSpeedKmh, 64)

	out := weather.NormalizedWeather{
		FetchedAt: time.Now().UTC(),
		Current: weather.CurrentConditions{
			TemperatureC:     temp,
			HumidityPct:      parseOptional(cur.Humidity),
			PressureHPa:      parseOptional(cur.Pressure),
			WeatherCode:      mapWWOCode(atoiDefault(cur.WeatherCode, 113)),
			WindSpeedKmh:     wind,
			WindDirectionDeg: parseOptional(cur.WindDirDeg),
		},
	}

	for _, day := range payload.Weather {
		d, err := time.Parse("2006-01-02", day.Date)
		if err != nil {
			continue
		}

		var dayCode int
		for _, h := range day.Hourly {
			minutes := atoiDefault(h.Time, 0)
			ts := d.Add(time.Duration(minutes/100) * time.Hour).UTC()

			ht, err := strconv.ParseFloat(h.TempC, 64)
			if err != nil {
				continue
			}
			code := mapWWOCode(atoiDefault(h.WeatherCode, 113))
			entry := weather.HourlyEntry{
				Timestamp:         ts,
				TemperatureC:      ht,
				WeatherCode:       code,
				PrecipProbability: parseOptional(h.ChanceOfRain),
				WindSpeedKmh:      parseOptional(h.WindSpeedKmh),
			}
			out.Hourly = append(out.Hourly, entry)

			// Midday entry stands in as the representative daily code.
			if minutes == 1200 {
				dayCode = code
			}
		}

		maxC, errMax := strconv.ParseFloat(day.MaxTempC, 64)
		minC, errMin := strconv.ParseFloat(day.MinTempC, 64)
		if errMax != nil || errMin != nil {
			continue
		}
		out.Daily = append(out.Daily, weather.DailyEntry{
			Date:            d,
			WeatherCode:     dayCode,
			TemperatureMaxC: maxC,
			TemperatureMinC: minC,
		})
	}

	return out, nil
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func parseOptional(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(v) {
		return nil
	}
	return &v
}

// wwoCodeTable translates World Weather Online codes (used by wttr.in) into
// the shared WMO space. Unmapped codes fall back to 0 ("Clear").
var wwoCodeTable = map[int]int{
	113: 0,  // Sunny / Clear
	116: 1,  // Partly cloudy
	119: 2,  // Cloudy
	122: 3,  // Overcast
	143: 45, // Mist
	176: 80, // Patchy rain possible
	179: 85, // Patchy snow possible
	200: 95, // Thundery outbreaks
	227: 85, // Blowing snow
	230: 86, // Blizzard
	248: 45, // Fog
	260: 48, // Freezing fog
	263: 51, // Patchy light drizzle
	266: 51, // Light drizzle
	281: 53, // Freezing drizzle
	284: 55, // Heavy freezing drizzle
	293: 80, // Patchy light rain
	296: 61, // Light rain
	299: 63, // Moderate rain at times
	302: 63, // Moderate rain
	305: 82, // Heavy rain at times
	308: 65, // Heavy rain
	311: 53, // Light freezing rain
	323: 71, // Patchy light snow
	326: 71, // Light snow
	329: 73, // Patchy moderate snow
	332: 73, // Moderate snow
	335: 75, // Patchy heavy snow
	338: 75, // Heavy snow
	350: 77, // Ice pellets
	353: 80, // Light rain shower
	356: 81, // Moderate or heavy rain shower
	359: 82, // Torrential rain shower
	368: 85, // Light snow showers
	371: 86, // Moderate or heavy snow showers
	386: 95, // Patchy light rain with thunder
	389: 95, // Moderate or heavy rain with thunder
	392: 96, // Patchy light snow with thunder
	395: 99, // Moderate or heavy snow with thunder
}

func mapWWOCode(code int) int {
	if mapped, ok := wwoCodeTable[code]; ok {
		return mapped
	}
	return 0
}
