package weather

import (
	"strings"
	"testing"
)

func TestIconURL(t *testing.T) {
	got := IconURL("10d")
	want := "https://openweathermap.org/img/wn/10d@2x.png"
	if got != want {
		t.Fatalf("IconURL(10d) = %q, want %q", got, want)
	}
}

func TestIconURLIsDeterministicAndVerbatim(t *testing.T) {
	for _, code := range []string{"01n", "zz-not-a-code", "04d"} {
		first := IconURL(code)
		if second := IconURL(code); first != second {
			t.Errorf("IconURL(%q) not deterministic: %q vs %q", code, first, second)
		}
		if n := strings.Count(first, code); n != 1 {
			t.Errorf("IconURL(%q) contains code %d times, want 1", code, n)
		}
	}
}
