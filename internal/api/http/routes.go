package httpapi

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Sanjai-Shaarugesh/Advanced-Weather-Companion/internal/location"
	"github.com/Sanjai-Shaarugesh/Advanced-Weather-Companion/internal/store"
	"github.com/Sanjai-Shaarugesh/Advanced-Weather-Companion/internal/weather"
)

var validate = validator.New()

// Geocoder is the place-search surface backing the preferences endpoints.
type Geocoder interface {
	Search(ctx context.Context, query string) ([]location.GeocodeResult, error)
	Reverse(ctx context.Context, coords weather.Coordinates) (string, error)
}

// DisplayConfig carries the configured display units applied by the
// current-conditions endpoint. The stored data stays normalized; conversion
// happens at the edge.
type DisplayConfig struct {
	UseFahrenheit bool
	WindSpeedUnit weather.WindSpeedUnit
	TimeFormat    string // "24h" or "12h"
}

func (d DisplayConfig) hourLayout() string {
	if d.TimeFormat == "12h" {
		return "3:04 PM"
	}
	return "15:04"
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, geocoder Geocoder, display DisplayConfig) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		snapshot, err := service.Latest()
		if err != nil {
			return mapServiceError(err)
		}

		cond := weather.LookupCondition(snapshot.Current.WeatherCode)

		temp := snapshot.Current.TemperatureC
		tempUnit := "°C"
		if display.UseFahrenheit {
			temp = weather.ToFahrenheit(temp)
			tempUnit = "°F"
		}
		wind := weather.ConvertWindSpeed(snapshot.Current.WindSpeedKmh, display.WindSpeedUnit)

		return c.JSON(fiber.Map{
			"snapshot": snapshot,
			"display": fiber.Map{
				"temperature": fiber.Map{"value": temp, "unit": tempUnit},
				"wind":        wind,
				"condition":   cond,
			},
		})
	})

	v1.Get("/weather/hourly", func(c *fiber.Ctx) error {
		var req hourlyQuery
		req.Hours = c.QueryInt("hours", 24)
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snapshot, err := service.Latest()
		if err != nil {
			return mapServiceError(err)
		}

		hours := req.Hours
		if hours > len(snapshot.Hourly) {
			hours = len(snapshot.Hourly)
		}

		layout := display.hourLayout()
		entries := make([]fiber.Map, 0, hours)
		for _, h := range snapshot.Hourly[:hours] {
			entries = append(entries, fiber.Map{
				"entry":     h,
				"label":     h.Timestamp.Format(layout),
				"condition": weather.LookupCondition(h.WeatherCode),
			})
		}

		return c.JSON(fiber.Map{
			"location": snapshot.Location,
			"hourly":   entries,
		})
	})

	v1.Get("/weather/daily", func(c *fiber.Ctx) error {
		snapshot, err := service.Latest()
		if err != nil {
			return mapServiceError(err)
		}

		entries := make([]fiber.Map, 0, len(snapshot.Daily))
		for _, d := range snapshot.Daily {
			entries = append(entries, fiber.Map{
				"entry":     d,
				"day":       d.Date.Format("Mon"),
				"condition": weather.LookupCondition(d.WeatherCode),
			})
		}

		return c.JSON(fiber.Map{
			"location": snapshot.Location,
			"daily":    entries,
		})
	})

	v1.Get("/weather/insights", func(c *fiber.Ctx) error {
		snapshot, err := service.Latest()
		if err != nil {
			return mapServiceError(err)
		}
		return c.JSON(weather.ComputeInsights(snapshot))
	})

	v1.Get("/weather/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snapshots, err := service.GetRange(req.From, req.To)
		if err != nil {
			return mapServiceError(err)
		}

		return c.JSON(fiber.Map{
			"from":      req.From,
			"to":        req.To,
			"snapshots": snapshots,
		})
	})

	v1.Post("/weather/refresh", func(c *fiber.Ctx) error {
		snapshot, err := service.Refresh(c.Context())
		if err != nil {
			return mapServiceError(err)
		}
		return c.JSON(snapshot)
	})

	v1.Get("/providers", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"providers": service.Health()})
	})

	v1.Get("/location", func(c *fiber.Ctx) error {
		loc, ok := service.LastLocation()
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no location resolved yet")
		}
		return c.JSON(loc)
	})

	// Place search and coordinate labeling for the preferences surface.
	v1.Get("/geocode", func(c *fiber.Ctx) error {
		query := c.Query("q")
		if query == "" {
			return fiber.NewError(fiber.StatusBadRequest, "q query parameter is required")
		}

		results, err := geocoder.Search(c.Context(), query)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "geocoding failed")
		}

		out := make([]fiber.Map, 0, len(results))
		for _, r := range results {
			out = append(out, fiber.Map{
				"name":        r.Name,
				"country":     r.Country,
				"admin1":      r.Admin1,
				"displayName": r.DisplayName(),
				"coordinates": r.Coordinates,
			})
		}
		return c.JSON(fiber.Map{"results": out})
	})

	v1.Get("/geocode/reverse", func(c *fiber.Ctx) error {
		lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
		lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
		if errLat != nil || errLon != nil {
			return fiber.NewError(fiber.StatusBadRequest, "lat and lon query parameters are required")
		}

		coords := weather.Coordinates{Lat: lat, Lon: lon}
		if !coords.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, weather.ErrInvalidCoordinates.Error())
		}

		name, err := geocoder.Reverse(c.Context(), coords)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "reverse geocoding failed")
		}
		return c.JSON(fiber.Map{"displayName": name, "coordinates": coords})
	})
}

// mapServiceError translates pipeline errors into HTTP statuses.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, weather.ErrNoLocationAvailable):
		return fiber.NewError(fiber.StatusNotFound, "no weather data available yet")
	case errors.Is(err, weather.ErrRefreshInFlight):
		return fiber.NewError(fiber.StatusConflict, "refresh already in progress")
	case errors.Is(err, weather.ErrUnknownProvider):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, weather.ErrMalformedResponse):
		return fiber.NewError(fiber.StatusBadGateway, "weather provider returned malformed data")
	}

	var ne *weather.NetworkError
	if errors.As(err, &ne) {
		return fiber.NewError(fiber.StatusBadGateway, ne.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
}

// hourlyQuery holds query parameters for the hourly endpoint.
type hourlyQuery struct {
	Hours int `validate:"min=1,max=168"`
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
