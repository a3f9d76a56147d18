package weather

import "testing"

func TestSnapshotRounding(t *testing.T) {
	s := Snapshot{TemperatureC: 30.5, FeelsLikeC: 33.4, WindSpeedMs: 2.46}

	if got := s.RoundedTemperature(); got != 31 {
		t.Errorf("RoundedTemperature = %d, want 31", got)
	}
	if got := s.RoundedFeelsLike(); got != 33 {
		t.Errorf("RoundedFeelsLike = %d, want 33", got)
	}
	if got := s.RoundedWindSpeed(); got != 2.5 {
		t.Errorf("RoundedWindSpeed = %v, want 2.5", got)
	}
}

func TestSnapshotFormatted(t *testing.T) {
	s := Snapshot{
		CityName:             "Jakarta",
		CountryCode:          "ID",
		TemperatureC:         29.6,
		FeelsLikeC:           33.2,
		HumidityPct:          78,
		PressureHpa:          1009,
		WindSpeedMs:          3.14,
		ConditionDescription: "hujan ringan",
		IconCode:             "10d",
	}

	d := s.Formatted()
	want := Display{
		Temperature: "30°C",
		FeelsLike:   "33°C",
		Humidity:    "78%",
		Pressure:    "1009 hPa",
		WindSpeed:   "3.1 m/s",
		Description: "hujan ringan",
		Icon:        "10d",
		City:        "Jakarta, ID",
	}
	if d != want {
		t.Fatalf("Formatted() = %+v, want %+v", d, want)
	}
}

func TestConditionFromMain(t *testing.T) {
	tests := map[string]Condition{
		"Clear":        ConditionClear,
		"Clouds":       ConditionCloudy,
		"Thunderstorm": ConditionStorm,
		"Haze":         ConditionMist,
		"Volcano":      ConditionUnknown,
	}
	for main, want := range tests {
		if got := ConditionFromMain(main); got != want {
			t.Errorf("ConditionFromMain(%q) = %q, want %q", main, got, want)
		}
	}
	if ConditionUnknown.Emoji() != "🌡️" {
		t.Errorf("unknown condition emoji = %q", ConditionUnknown.Emoji())
	}
}

func TestConditionColors(t *testing.T) {
	tests := []struct {
		main string
		want [2]string
	}{
		{"Clear", [2]string{"#87CEEB", "#E0F7FA"}},
		{"Clouds", [2]string{"#B0C4DE", "#ECEFF1"}},
		{"Thunderstorm", [2]string{"#2F4F4F", "#546E7A"}},
		{"Mist", [2]string{"#CFD8DC", "#ECEFF1"}},
		{"Dust", [2]string{"#1a73e8", "#64B5F6"}},
		{"", [2]string{"#1a73e8", "#64B5F6"}},
	}
	for _, tt := range tests {
		if got := ConditionFromMain(tt.main).Colors(); got != tt.want {
			t.Errorf("Colors(%q) = %v, want %v", tt.main, got, tt.want)
		}
	}
}
