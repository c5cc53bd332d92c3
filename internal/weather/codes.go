package weather

// Severity buckets a condition for alerting purposes.
type Severity string

const (
	SeverityNormal  Severity = "normal"
	SeverityWarning Severity = "warning"
	SeveritySevere  Severity = "severe"
	SeverityUnknown Severity = "unknown"
)

// Condition is a display-ready description of a weather code.
type Condition struct {
	Name     string   `json:"name"`
	Icon     string   `json:"icon"`
	Severity Severity `json:"severity"`
}

// unknownCondition is returned for any code not in the table.
var unknownCondition = Condition{
	Name:     "Unknown",
	Icon:     "weather-severe-alert-symbolic",
	Severity: SeverityUnknown,
}

// conditionTable maps Open-Meteo/WMO weather codes to display conditions.
var conditionTable = map[int]Condition{
	0:  {"Clear Sky", "weather-clear-symbolic", SeverityNormal},
	1:  {"Mainly Clear", "weather-few-clouds-symbolic", SeverityNormal},
	2:  {"Partly Cloudy", "weather-overcast-symbolic", SeverityNormal},
	3:  {"Overcast", "weather-overcast-symbolic", SeverityNormal},
	45: {"Foggy", "weather-fog-symbolic", SeverityNormal},
	48: {"Depositing Rime Fog", "weather-fog-symbolic", SeverityNormal},
	51: {"Light Drizzle", "weather-showers-scattered-symbolic", SeverityNormal},
	53: {"Moderate Drizzle", "weather-showers-symbolic", SeverityNormal},
	55: {"Dense Drizzle", "weather-showers-symbolic", SeverityNormal},
	61: {"Slight Rain", "weather-showers-scattered-symbolic", SeverityNormal},
	63: {"Moderate Rain", "weather-showers-symbolic", SeverityNormal},
	65: {"Heavy Rain", "weather-storm-symbolic", SeverityWarning},
	71: {"Slight Snow", "weather-snow-symbolic", SeverityNormal},
	73: {"Moderate Snow", "weather-snow-symbolic", SeverityNormal},
	75: {"Heavy Snow", "weather-snow-symbolic", SeverityWarning},
	77: {"Snow Grains", "weather-snow-symbolic", SeverityNormal},
	80: {"Slight Rain Showers", "weather-showers-scattered-symbolic", SeverityNormal},
	81: {"Moderate Rain Showers", "weather-showers-symbolic", SeverityNormal},
	82: {"Violent Rain Showers", "weather-storm-symbolic", SeverityWarning},
	85: {"Slight Snow Showers", "weather-snow-symbolic", SeverityNormal},
	86: {"Heavy Snow Showers", "weather-snow-symbolic", SeverityWarning},
	95: {"Thunderstorm", "weather-storm-symbolic", SeveritySevere},
	96: {"Thunderstorm with Light Hail", "weather-storm-symbolic", SeveritySevere},
	99: {"Thunderstorm with Heavy Hail", "weather-storm-symbolic", SeveritySevere},
}

// LookupCondition is total: any code not in the table yields the fixed
// Unknown condition.
func LookupCondition(code int) Condition {
	if c, ok := conditionTable[code]; ok {
		return c
	}
	return unknownCondition
}

// precipitationCodes are the codes counted toward the hourly
// precipitation-chance heuristic.
var precipitationCodes = map[int]bool{
	51: true, 53: true, 55: true,
	61: true, 63: true, 65: true,
	80: true, 81: true, 82: true,
	85: true, 86: true,
}

// IsPrecipitation reports whether a code describes falling precipitation.
func IsPrecipitation(code int) bool {
	return precipitationCodes[code]
}

// extremeCodes trigger the extreme-weather flag in insights.
var extremeCodes = map[int]bool{
	82: true, 86: true, 95: true, 96: true, 99: true,
}

// IsExtreme reports whether a code describes extreme conditions.
func IsExtreme(code int) bool {
	return extremeCodes[code]
}
