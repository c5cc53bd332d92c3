package weather

import (
	"fmt"
	"time"
)

// LocationSource says how a location was obtained.
type LocationSource string

const (
	SourceManual   LocationSource = "manual"
	SourceGeocoded LocationSource = "geocoded"
	SourceIPAuto   LocationSource = "ip-auto"
	SourceFallback LocationSource = "fallback"
)

// Coordinates is a validated latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// Valid reports whether the pair lies within [-90,90] x [-180,180].
func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// ResolvedLocation is the outcome of one resolution cycle. It is immutable
// once produced; the next refresh replaces it wholesale.
type ResolvedLocation struct {
	Coordinates Coordinates    `json:"coordinates"`
	DisplayName string         `json:"displayName"`
	Source      LocationSource `json:"source"`
}

// Key returns a canonical string key for indexing this location in stores.
// Coordinates are rounded so that label differences between resolution
// cycles do not fragment history.
func (l ResolvedLocation) Key() string {
	return fmt.Sprintf("%.4f:%.4f", l.Coordinates.Lat, l.Coordinates.Lon)
}

// CurrentConditions is the normalized "right now" block. Optional fields are
// pointers: a provider that does not report them leaves them nil rather than
// zero.
type CurrentConditions struct {
	TemperatureC     float64  `json:"temperatureC"`
	HumidityPct      *float64 `json:"humidityPercent,omitempty"`
	PressureHPa      *float64 `json:"pressureHpa,omitempty"`
	WeatherCode      int      `json:"weatherCode"`
	WindSpeedKmh     float64  `json:"windSpeedKmh"`
	WindDirectionDeg *float64 `json:"windDirectionDeg,omitempty"`
}

// HourlyEntry is one normalized hourly forecast point.
type HourlyEntry struct {
	Timestamp         time.Time `json:"timestamp"`
	TemperatureC      float64   `json:"temperatureC"`
	WeatherCode       int       `json:"weatherCode"`
	PrecipProbability *float64  `json:"precipitationProbabilityPercent,omitempty"`
	WindSpeedKmh      *float64  `json:"windSpeedKmh,omitempty"`
}

// DailyEntry is one normalized daily forecast point. Date carries only the
// calendar day (midnight UTC).
type DailyEntry struct {
	Date            time.Time `json:"date"`
	WeatherCode     int       `json:"weatherCode"`
	TemperatureMaxC float64   `json:"temperatureMaxC"`
	TemperatureMinC float64   `json:"temperatureMinC"`
}

// NormalizedWeather is the single schema every provider adapter produces.
// All temperatures are Celsius, speeds km/h, pressures hPa; weather codes
// follow the Open-Meteo/WMO convention.
type NormalizedWeather struct {
	Location  ResolvedLocation  `json:"location"`
	Provider  string            `json:"provider"`
	FetchedAt time.Time         `json:"fetchedAt"` // always UTC
	Current   CurrentConditions `json:"current"`
	Hourly    []HourlyEntry     `json:"hourly,omitempty"`
	Daily     []DailyEntry      `json:"daily,omitempty"`
}

// Store is the contract the in-memory store (and any future persistent
// store) must satisfy.
type Store interface {
	SaveSnapshot(loc ResolvedLocation, snapshot NormalizedWeather)
	GetLatest(loc ResolvedLocation) (NormalizedWeather, error)
	GetRange(loc ResolvedLocation, from, to time.Time) ([]NormalizedWeather, error)
}
