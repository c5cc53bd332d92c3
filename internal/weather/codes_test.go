package weather

import "testing"

func TestLookupConditionKnownCodes(t *testing.T) {
	cases := []struct {
		code     int
		name     string
		severity Severity
	}{
		{0, "Clear Sky", SeverityNormal},
		{65, "Heavy Rain", SeverityWarning},
		{95, "Thunderstorm", SeveritySevere},
		{99, "Thunderstorm with Heavy Hail", SeveritySevere},
	}

	for _, tc := range cases {
		got := LookupCondition(tc.code)
		if got.Name != tc.name {
			t.Errorf("code %d: expected name %q, got %q", tc.code, tc.name, got.Name)
		}
		if got.Severity != tc.severity {
			t.Errorf("code %d: expected severity %q, got %q", tc.code, tc.severity, got.Severity)
		}
	}
}

func TestLookupConditionUnknownCodesNeverFail(t *testing.T) {
	// A wide sweep including negatives and codes far outside the table.
	for _, code := range []int{-1, 4, 42, 100, 9999, -500} {
		got := LookupCondition(code)
		if got != unknownCondition {
			t.Errorf("code %d: expected the fixed unknown condition, got %+v", code, got)
		}
	}

	if unknownCondition.Icon != "weather-severe-alert-symbolic" {
		t.Errorf("unknown condition carries wrong icon %q", unknownCondition.Icon)
	}
}

func TestPrecipitationAndExtremeClassification(t *testing.T) {
	for _, code := range []int{51, 61, 65, 80, 86} {
		if !IsPrecipitation(code) {
			t.Errorf("code %d should count as precipitation", code)
		}
	}
	if IsPrecipitation(0) || IsPrecipitation(95) {
		t.Error("clear sky and thunderstorm are not precipitation codes")
	}

	for _, code := range []int{82, 86, 95, 96, 99} {
		if !IsExtreme(code) {
			t.Errorf("code %d should be extreme", code)
		}
	}
	if IsExtreme(61) {
		t.Error("slight rain is not extreme")
	}
}
