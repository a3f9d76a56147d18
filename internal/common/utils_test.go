package common

import "testing"

func TestHasAny(t *testing.T) {
	if !HasAny("WEAK_PASSWORD : Password should be at least 6 characters", "WEAK_PASSWORD") {
		t.Error("expected match")
	}
	if HasAny("EMAIL_EXISTS", "EMAIL_NOT_FOUND", "INVALID_EMAIL") {
		t.Error("unexpected match")
	}
	if HasAny("anything") {
		t.Error("no substrings should never match")
	}
}

func TestNormalizeCityName(t *testing.T) {
	tests := map[string]string{
		"  Jakarta ":  "Jakarta",
		"jakarta":     "jakarta",
		"\tBandung\n": "Bandung",
		"":            "",
	}
	for in, want := range tests {
		if got := NormalizeCityName(in); got != want {
			t.Errorf("NormalizeCityName(%q) = %q, want %q", in, got, want)
		}
	}
}
