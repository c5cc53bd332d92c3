package weather

import (
	"testing"
	"time"
)

func TestAnalyzeTrend(t *testing.T) {
	cases := []struct {
		name  string
		temps []float64
		want  TrendDirection
	}{
		{"warming", []float64{10, 11, 12, 13}, TrendWarming},
		{"cooling", []float64{13, 12, 11, 10}, TrendCooling},
		{"stable", []float64{10, 11, 10, 11}, TrendStable},
		{"flat", []float64{10, 10, 10}, TrendStable},
		{"single point", []float64{10}, TrendInsufficient},
		{"empty", nil, TrendInsufficient},
	}

	for _, tc := range cases {
		if got := AnalyzeTrend(tc.temps); got != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestComputeInsights(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	hourly := []HourlyEntry{
		{Timestamp: base, TemperatureC: 10, WeatherCode: 0},
		{Timestamp: base.Add(time.Hour), TemperatureC: 11, WeatherCode: 61},
		{Timestamp: base.Add(2 * time.Hour), TemperatureC: 12, WeatherCode: 63},
		{Timestamp: base.Add(3 * time.Hour), TemperatureC: 13, WeatherCode: 95},
	}

	ins := ComputeInsights(NormalizedWeather{
		Current: CurrentConditions{TemperatureC: 10, WeatherCode: 61},
		Hourly:  hourly,
	})

	if ins.TemperatureTrend != TrendWarming {
		t.Errorf("expected warming trend, got %s", ins.TemperatureTrend)
	}
	// Two of four hourly codes are precipitation (61, 63); 95 is not.
	if ins.PrecipChancePct != 50 {
		t.Errorf("expected 50%% precipitation chance, got %v", ins.PrecipChancePct)
	}
	if !ins.ExtremeWeather {
		t.Error("expected extreme-weather flag from thunderstorm hour")
	}
}

func TestComputeInsightsEmptyHourly(t *testing.T) {
	ins := ComputeInsights(NormalizedWeather{
		Current: CurrentConditions{TemperatureC: 5, WeatherCode: 3},
	})

	if ins.TemperatureTrend != TrendInsufficient {
		t.Errorf("expected insufficient-data trend, got %s", ins.TemperatureTrend)
	}
	if ins.PrecipChancePct != 0 {
		t.Errorf("expected zero precipitation chance, got %v", ins.PrecipChancePct)
	}
	if ins.ExtremeWeather {
		t.Error("overcast should not raise the extreme flag")
	}
	if ins.CurrentCondition.Name != "Overcast" {
		t.Errorf("expected Overcast condition, got %q", ins.CurrentCondition.Name)
	}
}

func TestSeverityDrivesAlertTiers(t *testing.T) {
	if LookupCondition(65).Severity != SeverityWarning {
		t.Error("heavy rain should classify as warning tier")
	}
	if LookupCondition(95).Severity != SeveritySevere {
		t.Error("thunderstorm should classify as severe tier")
	}
}
