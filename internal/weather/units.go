package weather

// WindSpeedUnit selects the display unit for wind speed.
type WindSpeedUnit string

const (
	UnitKmh   WindSpeedUnit = "kmh"
	UnitMph   WindSpeedUnit = "mph"
	UnitMs    WindSpeedUnit = "ms"
	UnitKnots WindSpeedUnit = "knots"
)

// windSpeedFactors convert from km/h into the target unit.
var windSpeedFactors = map[WindSpeedUnit]struct {
	factor float64
	label  string
}{
	UnitKmh:   {1, "km/h"},
	UnitMph:   {0.621371, "mph"},
	UnitMs:    {0.277778, "m/s"},
	UnitKnots: {0.539957, "knots"},
}

// WindSpeed is a converted wind-speed value with its display label.
type WindSpeed struct {
	Value float64 `json:"value"`
	Label string  `json:"unit"`
}

// ToFahrenheit converts a Celsius temperature.
func ToFahrenheit(celsius float64) float64 {
	return celsius*9/5 + 32
}

// ConvertWindSpeed converts a km/h speed into the requested unit. An
// unrecognized unit falls back to km/h.
func ConvertWindSpeed(kmh float64, unit WindSpeedUnit) WindSpeed {
	f, ok := windSpeedFactors[unit]
	if !ok {
		f = windSpeedFactors[UnitKmh]
	}
	return WindSpeed{Value: kmh * f.factor, Label: f.label}
}
