package weather

import (
	"testing"
	"time"
)

func entryAt(ts time.Time, temp float64) ForecastEntry {
	return ForecastEntry{Time: ts, Weather: Snapshot{TemperatureC: temp}}
}

func TestDailyForecastKeepsFirstEntryPerDay(t *testing.T) {
	dayA := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	dayB := dayA.AddDate(0, 0, 1)

	entries := []ForecastEntry{
		entryAt(dayA.Add(9*time.Hour), 30),
		entryAt(dayA.Add(12*time.Hour), 31),
		entryAt(dayA.Add(15*time.Hour), 32),
		entryAt(dayB.Add(0*time.Hour), 25),
		entryAt(dayB.Add(3*time.Hour), 26),
	}

	days := DailyForecast(entries, 5)
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if days[0].Date != "2024-03-01" || days[0].Weather.TemperatureC != 30 {
		t.Errorf("day A = %+v, want first-seen entry of 2024-03-01", days[0])
	}
	if days[1].Date != "2024-03-02" || days[1].Weather.TemperatureC != 25 {
		t.Errorf("day B = %+v, want first-seen entry of 2024-03-02", days[1])
	}
}

func TestDailyForecastInterleavedDaysKeepFirstSeenOrder(t *testing.T) {
	dayA := time.Date(2024, 3, 2, 6, 0, 0, 0, time.UTC)
	dayB := time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)

	entries := []ForecastEntry{
		entryAt(dayA, 1),
		entryAt(dayB, 2),
		entryAt(dayA.Add(time.Hour), 3),
		entryAt(dayB.Add(time.Hour), 4),
		entryAt(dayA.Add(2*time.Hour), 5),
	}

	days := DailyForecast(entries, 0)
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if days[0].Date != "2024-03-02" || days[0].Weather.TemperatureC != 1 {
		t.Errorf("first day = %+v", days[0])
	}
	if days[1].Date != "2024-03-01" || days[1].Weather.TemperatureC != 2 {
		t.Errorf("second day = %+v", days[1])
	}
}

func TestDailyForecastCapsDays(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	var entries []ForecastEntry
	for i := 0; i < 8; i++ {
		entries = append(entries, entryAt(start.AddDate(0, 0, i), float64(i)))
	}

	days := DailyForecast(entries, 5)
	if len(days) != 5 {
		t.Fatalf("expected 5 days, got %d", len(days))
	}
	if days[4].Date != "2024-01-05" {
		t.Errorf("last day = %s, want 2024-01-05", days[4].Date)
	}
}

func TestDailyForecastUsesEntryTimeZone(t *testing.T) {
	wib := time.FixedZone("WIB", 7*3600)
	// 18:00 UTC on Mar 1 is 01:00 on Mar 2 in UTC+7.
	late := time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC).In(wib)
	early := time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC).In(wib)

	days := DailyForecast([]ForecastEntry{entryAt(early, 1), entryAt(late, 2)}, 5)
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if days[1].Date != "2024-03-02" {
		t.Errorf("late entry date = %s, want 2024-03-02", days[1].Date)
	}
}

func TestDailyForecastSparseFeed(t *testing.T) {
	if days := DailyForecast(nil, 5); len(days) != 0 {
		t.Fatalf("expected no days, got %d", len(days))
	}
}
