package weather

// DailyForecast keeps the first entry seen for each calendar day, in first-seen
// order, and stops once maxDays days have been collected. maxDays <= 0 means no cap.
// Calendar days are taken in each entry's own time zone.
func DailyForecast(entries []ForecastEntry, maxDays int) []ForecastDay {
	days := make([]ForecastDay, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))

	for _, e := range entries {
		if maxDays > 0 && len(days) >= maxDays {
			break
		}

		key := e.Time.Format("2006-01-02")
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		days = append(days, ForecastDay{
			Date:    key,
			Time:    e.Time,
			Weather: e.Weather,
		})
	}

	return days
}
