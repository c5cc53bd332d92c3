package location

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Sanjai-Shaarugesh/Advanced-Weather-Companion/internal/weather"
)

// ipService is one IP-geolocation endpoint together with its field
// extraction logic; each service returns a differently shaped payload.
type ipService struct {
	name    string
	url     string
	extract func(body []byte) (weather.Coordinates, string, error)
}

// defaultIPServices is the ordered list tried during auto-detection. The
// first service returning both latitude and longitude wins.
func defaultIPServices() []ipService {
	return []ipService{
		{
			name: "ipapi.co",
			url:  "https://ipapi.co/json/",
			extract: func(body []byte) (weather.Coordinates, string, error) {
				var payload struct {
					Latitude    *float64 `json:"latitude"`
					Longitude   *float64 `json:"longitude"`
					City        string   `json:"city"`
					CountryName string   `json:"country_name"`
				}
				if err := json.Unmarshal(body, &payload); err != nil {
					return weather.Coordinates{}, "", err
				}
				if payload.Latitude == nil || payload.Longitude == nil {
					return weather.Coordinates{}, "", fmt.Errorf("ipapi.co response missing coordinates")
				}
				coords := weather.Coordinates{Lat: *payload.Latitude, Lon: *payload.Longitude}
				return coords, joinPlace(payload.City, payload.CountryName), nil
			},
		},
		{
			name: "ipinfo.io",
			url:  "https://ipinfo.io/json",
			extract: func(body []byte) (weather.Coordinates, string, error) {
				var payload struct {
					Loc     string `json:"loc"` // "lat,lon"
					City    string `json:"city"`
					Country string `json:"country"`
				}
				if err := json.Unmarshal(body, &payload); err != nil {
					return weather.Coordinates{}, "", err
				}
				parts := strings.SplitN(payload.Loc, ",", 2)
				if len(parts) != 2 {
					return weather.Coordinates{}, "", fmt.Errorf("ipinfo.io loc field %q is not lat,lon", payload.Loc)
				}
				lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
				lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
				if errLat != nil || errLon != nil {
					return weather.Coordinates{}, "", fmt.Errorf("ipinfo.io loc field %q is not numeric", payload.Loc)
				}
				return weather.Coordinates{Lat: lat, Lon: lon}, joinPlace(payload.City, payload.Country), nil
			},
		},
	}
}

func joinPlace(city, country string) string {
	switch {
	case city != "" && country != "":
		return city + ", " + country
	case city != "":
		return city
	case country != "":
		return country
	default:
		return "Unknown Location"
	}
}

func readAll(r io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, 1<<20))
}
