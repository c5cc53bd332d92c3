package providers

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/Sanjai-Shaarugesh/Advanced-Weather-Companion/internal/weather"
)

var testCoords = weather.Coordinates{Lat: 51.5074, Lon: -0.1278}

func TestOpenMeteoParseResponse(t *testing.T) {
	body := `{
		"current_weather": {"temperature": 18.3, "windspeed": 12.5, "winddirection": 240, "weathercode": 61, "time": "2026-03-01T12:00"},
		"hourly": {
			"time": ["2026-03-01T12:00", "2026-03-01T13:00"],
			"temperature_2m": [18.3, 19.1],
			"weathercode": [61, 63],
			"precipitation_probability": [40, 55],
			"windspeed_10m": [12.5, 14.0]
		},
		"daily": {
			"time": ["2026-03-01"],
			"weathercode": [63],
			"temperature_2m_max": [20.0],
			"temperature_2m_min": [11.0]
		}
	}`

	got, err := NewOpenMeteoAdapter().ParseResponse([]byte(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !finite(got.Current.TemperatureC) || got.Current.TemperatureC != 18.3 {
		t.Errorf("expected temperature 18.3, got %v", got.Current.TemperatureC)
	}
	if got.Current.WeatherCode != 61 {
		t.Errorf("expected weather code 61, got %d", got.Current.WeatherCode)
	}
	if len(got.Hourly) != 2 || len(got.Daily) != 1 {
		t.Fatalf("expected 2 hourly and 1 daily entries, got %d/%d", len(got.Hourly), len(got.Daily))
	}
	if got.Hourly[1].PrecipProbability == nil || *got.Hourly[1].PrecipProbability != 55 {
		t.Errorf("expected precipitation probability 55, got %v", got.Hourly[1].PrecipProbability)
	}
	if got.Daily[0].TemperatureMaxC != 20 || got.Daily[0].TemperatureMinC != 11 {
		t.Errorf("daily extremes wrong: %+v", got.Daily[0])
	}
	// Humidity is absent from current_weather, never zero-filled.
	if got.Current.HumidityPct != nil {
		t.Errorf("expected absent humidity, got %v", *got.Current.HumidityPct)
	}
}

func TestOpenMeteoMissingCurrentIsMalformed(t *testing.T) {
	for _, body := range []string{`{}`, `{"hourly": {}}`, `not json`} {
		_, err := NewOpenMeteoAdapter().ParseResponse([]byte(body))
		if !errors.Is(err, weather.ErrMalformedResponse) {
			t.Errorf("body %q: expected ErrMalformedResponse, got %v", body, err)
		}
	}
}

func TestOpenMeteoForecastsAreOptional(t *testing.T) {
	body := `{"current_weather": {"temperature": 5.0, "windspeed": 3.0, "weathercode": 0, "time": "2026-03-01T12:00"}}`
	got, err := NewOpenMeteoAdapter().ParseResponse([]byte(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Hourly) != 0 || len(got.Daily) != 0 {
		t.Errorf("expected empty forecast blocks, got %d/%d", len(got.Hourly), len(got.Daily))
	}
}

func TestOpenWeatherParseResponse(t *testing.T) {
	body := `{
		"dt": 1767225600,
		"main": {"temp": 7.2, "humidity": 81, "pressure": 1013},
		"wind": {"speed": 5.0, "deg": 180},
		"weather": [{"id": 501}]
	}`

	got, err := NewOpenWeatherAdapter().ParseResponse([]byte(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Current.TemperatureC != 7.2 {
		t.Errorf("expected temperature 7.2, got %v", got.Current.TemperatureC)
	}
	// 5 m/s converts to 18 km/h.
	if math.Abs(got.Current.WindSpeedKmh-18) > 1e-9 {
		t.Errorf("expected wind 18 km/h, got %v", got.Current.WindSpeedKmh)
	}
	// Condition id 501 (moderate rain) remaps to WMO 63.
	if got.Current.WeatherCode != 63 {
		t.Errorf("expected weather code 63, got %d", got.Current.WeatherCode)
	}
	if got.Current.PressureHPa == nil || *got.Current.PressureHPa != 1013 {
		t.Errorf("expected pressure 1013, got %v", got.Current.PressureHPa)
	}
}

func TestOpenWeatherUnmappedCodeDefaultsToClear(t *testing.T) {
	if code := mapOpenWeatherCode(999999); code != 0 {
		t.Errorf("expected lossy default 0, got %d", code)
	}
}

func TestWeatherAPIParseResponse(t *testing.T) {
	body := `{
		"current": {
			"temp_c": 11.0, "wind_kph": 20.2, "wind_degree": 200,
			"humidity": 70, "pressure_mb": 1008,
			"condition": {"code": 1195}
		},
		"forecast": {"forecastday": [{
			"date": "2026-03-01",
			"day": {"maxtemp_c": 13.0, "mintemp_c": 6.0, "condition": {"code": 1063}},
			"hour": [{"time_epoch": 1767268800, "temp_c": 10.5, "wind_kph": 18.0, "chance_of_rain": 80, "condition": {"code": 1183}}]
		}]}
	}`

	got, err := NewWeatherAPIAdapter().ParseResponse([]byte(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// WeatherAPI 1195 (heavy rain) remaps to WMO 65.
	if got.Current.WeatherCode != 65 {
		t.Errorf("expected weather code 65, got %d", got.Current.WeatherCode)
	}
	if len(got.Hourly) != 1 || got.Hourly[0].WeatherCode != 61 {
		t.Fatalf("hourly remap wrong: %+v", got.Hourly)
	}
	if len(got.Daily) != 1 || got.Daily[0].WeatherCode != 80 {
		t.Fatalf("daily remap wrong: %+v", got.Daily)
	}
}

func TestWttrParseResponse(t *testing.T) {
	body := `{
		"current_condition": [{
			"temp_C": "9", "windspeedKmph": "15", "winddirDegree": "220",
			"humidity": "76", "pressure": "1011", "weatherCode": "308"
		}],
		"weather": [{
			"date": "2026-03-01", "maxtempC": "12", "mintempC": "4",
			"hourly": [
				{"time": "0", "tempC": "5", "weatherCode": "296", "chanceofrain": "60", "windspeedKmph": "10"},
				{"time": "1200", "tempC": "11", "weatherCode": "389", "chanceofrain": "90", "windspeedKmph": "22"}
			]
		}]
	}`

	got, err := NewWttrAdapter().ParseResponse([]byte(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// WWO 308 (heavy rain) remaps to WMO 65.
	if got.Current.WeatherCode != 65 {
		t.Errorf("expected weather code 65, got %d", got.Current.WeatherCode)
	}
	if got.Current.TemperatureC != 9 {
		t.Errorf("expected temperature 9, got %v", got.Current.TemperatureC)
	}
	if len(got.Daily) != 1 {
		t.Fatalf("expected 1 daily entry, got %d", len(got.Daily))
	}
	// The midday hourly entry (WWO 389 -> WMO 95) represents the day.
	if got.Daily[0].WeatherCode != 95 {
		t.Errorf("expected representative daily code 95, got %d", got.Daily[0].WeatherCode)
	}
	if len(got.Hourly) != 2 || got.Hourly[0].Timestamp.Hour() != 0 || got.Hourly[1].Timestamp.Hour() != 12 {
		t.Errorf("hourly timestamps wrong: %+v", got.Hourly)
	}
}

func TestWttrMissingCurrentIsMalformed(t *testing.T) {
	_, err := NewWttrAdapter().ParseResponse([]byte(`{"current_condition": []}`))
	if !errors.Is(err, weather.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestMeteosourceParseResponse(t *testing.T) {
	body := `{
		"current": {
			"temperature": 14.0, "icon_num": 11, "summary": "Rain",
			"wind": {"speed": 4.0, "angle": 150},
			"humidity": 66
		},
		"hourly": {"data": [{
			"date": "2026-03-01T13:00:00", "temperature": 14.5, "icon_num": 14, "summary": "Thunderstorm",
			"wind": {"speed": 5.0}, "precipitation": {"probability": 75}
		}]},
		"daily": {"data": [{
			"day": "2026-03-01",
			"all_day": {"icon_num": 11, "summary": "Rain", "temperature_max": 16.0, "temperature_min": 9.0}
		}]}
	}`

	got, err := NewMeteosourceAdapter().ParseResponse([]byte(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Icon 11 (rain) remaps to WMO 63.
	if got.Current.WeatherCode != 63 {
		t.Errorf("expected weather code 63, got %d", got.Current.WeatherCode)
	}
	// 4 m/s converts to 14.4 km/h.
	if math.Abs(got.Current.WindSpeedKmh-14.4) > 1e-9 {
		t.Errorf("expected wind 14.4 km/h, got %v", got.Current.WindSpeedKmh)
	}
	if len(got.Hourly) != 1 || got.Hourly[0].WeatherCode != 95 {
		t.Fatalf("hourly remap wrong: %+v", got.Hourly)
	}
	if got.Hourly[0].WindSpeedKmh == nil || math.Abs(*got.Hourly[0].WindSpeedKmh-18) > 1e-9 {
		t.Errorf("expected hourly wind 18 km/h, got %v", got.Hourly[0].WindSpeedKmh)
	}
}

func TestMeteosourceSummaryFallback(t *testing.T) {
	cases := []struct {
		summary string
		want    int
	}{
		{"Severe thunderstorm", 95},
		{"Sleet showers", 73},
		{"Light drizzle", 53},
		{"Morning haze", 45},
		{"Scattered clouds", 2},
		{"", 0},
	}
	for _, tc := range cases {
		if got := mapMeteosourceCode(-1, strings.ToLower(tc.summary)); got != tc.want {
			t.Errorf("summary %q: expected %d, got %d", tc.summary, tc.want, got)
		}
	}
}

func TestCustomAdapterBuildRequest(t *testing.T) {
	a := NewCustomAdapter("https://weather.example.com/v1?lat={lat}&lon={lon}")
	req, err := a.BuildRequest(context.Background(), testCoords, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	u := req.URL.String()
	if !strings.Contains(u, "lat=51.507400") || !strings.Contains(u, "lon=-0.127800") {
		t.Errorf("placeholders not substituted: %s", u)
	}

	if _, err := NewCustomAdapter("https://no-placeholders.example.com").BuildRequest(context.Background(), testCoords, ""); err == nil {
		t.Error("expected error for template without {lat}/{lon}")
	}

	keyed := NewCustomAdapter("https://weather.example.com/v1?lat={lat}&lon={lon}&key={key}")
	if !keyed.RequiresAPIKey() {
		t.Error("template with {key} should require an api key")
	}
	if _, err := keyed.BuildRequest(context.Background(), testCoords, ""); err == nil {
		t.Error("expected error when key placeholder present but key empty")
	}
}

func TestKeyedAdaptersRejectMissingKey(t *testing.T) {
	for _, a := range []weather.Adapter{NewOpenWeatherAdapter(), NewWeatherAPIAdapter(), NewMeteosourceAdapter()} {
		if _, err := a.BuildRequest(context.Background(), testCoords, ""); err == nil {
			t.Errorf("%s: expected error without api key", a.Name())
		}
	}
}

func TestRegistryContents(t *testing.T) {
	registry := NewRegistry("")
	for _, id := range []string{"openmeteo", "meteosource", "wttr", "openweathermap", "weatherapi"} {
		if _, ok := registry[id]; !ok {
			t.Errorf("registry missing provider %q", id)
		}
	}
	if _, ok := registry["custom"]; ok {
		t.Error("custom provider registered without a url template")
	}

	withCustom := NewRegistry("https://weather.example.com/v1?lat={lat}&lon={lon}")
	if _, ok := withCustom["custom"]; !ok {
		t.Error("custom provider not registered despite url template")
	}
}
