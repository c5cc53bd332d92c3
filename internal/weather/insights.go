package weather

// TrendDirection summarizes the short-term temperature movement.
type TrendDirection string

const (
	TrendWarming      TrendDirection = "warming"
	TrendCooling      TrendDirection = "cooling"
	TrendStable       TrendDirection = "stable"
	TrendInsufficient TrendDirection = "insufficient-data"
)

// Insights are simple heuristics derived from the hourly forecast series.
type Insights struct {
	TemperatureTrend TrendDirection `json:"temperatureTrend"`
	PrecipChancePct  float64        `json:"precipitationChancePercent"`
	ExtremeWeather   bool           `json:"extremeWeather"`
	CurrentSeverity  Severity       `json:"currentSeverity"`
	CurrentCondition Condition      `json:"currentCondition"`
}

// AnalyzeTrend classifies a temperature series by counting pairwise rises
// against pairwise falls.
func AnalyzeTrend(temperatures []float64) TrendDirection {
	if len(temperatures) < 2 {
		return TrendInsufficient
	}

	var rising, falling int
	for i := 1; i < len(temperatures); i++ {
		switch {
		case temperatures[i] > temperatures[i-1]:
			rising++
		case temperatures[i] < temperatures[i-1]:
			falling++
		}
	}

	switch {
	case rising > falling:
		return TrendWarming
	case falling > rising:
		return TrendCooling
	default:
		return TrendStable
	}
}

// ComputeInsights derives trend, precipitation chance, and the extreme
// weather flag from a normalized snapshot. It is pure and total: an empty
// hourly series yields zero precipitation chance and an insufficient-data
// trend.
func ComputeInsights(w NormalizedWeather) Insights {
	ins := Insights{
		CurrentCondition: LookupCondition(w.Current.WeatherCode),
	}
	ins.CurrentSeverity = ins.CurrentCondition.Severity

	temps := make([]float64, 0, len(w.Hourly))
	var precipHours int
	for _, h := range w.Hourly {
		temps = append(temps, h.TemperatureC)
		if IsPrecipitation(h.WeatherCode) {
			precipHours++
		}
		if IsExtreme(h.WeatherCode) {
			ins.ExtremeWeather = true
		}
	}

	ins.TemperatureTrend = AnalyzeTrend(temps)
	if len(w.Hourly) > 0 {
		ins.PrecipChancePct = float64(precipHours) / float64(len(w.Hourly)) * 100
	}

	if IsExtreme(w.Current.WeatherCode) {
		ins.ExtremeWeather = true
	}

	return ins
}
