package weather

import (
	"fmt"
	"math"
	"time"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionDrizzle Condition = "drizzle"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
	ConditionDust    Condition = "dust"
	ConditionSquall  Condition = "squall"
	ConditionTornado Condition = "tornado"
	ConditionAsh     Condition = "ash"
)

// ConditionFromMain maps the provider's "main" group (Clear, Clouds, Rain, ...) onto a Condition.
func ConditionFromMain(main string) Condition {
	switch main {
	case "Clear":
		return ConditionClear
	case "Clouds":
		return ConditionCloudy
	case "Rain":
		return ConditionRain
	case "Drizzle":
		return ConditionDrizzle
	case "Snow":
		return ConditionSnow
	case "Thunderstorm":
		return ConditionStorm
	case "Mist", "Fog", "Haze", "Smoke":
		return ConditionMist
	case "Dust", "Sand":
		return ConditionDust
	case "Squall":
		return ConditionSquall
	case "Tornado":
		return ConditionTornado
	case "Ash":
		return ConditionAsh
	default:
		return ConditionUnknown
	}
}

var conditionEmoji = map[Condition]string{
	ConditionClear:   "☀️",
	ConditionCloudy:  "☁️",
	ConditionRain:    "🌧️",
	ConditionDrizzle: "🌦️",
	ConditionSnow:    "❄️",
	ConditionStorm:   "⛈️",
	ConditionMist:    "🌫️",
	ConditionDust:    "💨",
	ConditionSquall:  "💨",
	ConditionTornado: "🌪️",
	ConditionAsh:     "🌋",
}

// Emoji returns a pictogram for the condition, a thermometer when unknown.
func (c Condition) Emoji() string {
	if e, ok := conditionEmoji[c]; ok {
		return e
	}
	return "🌡️"
}

var conditionColors = map[Condition][2]string{
	ConditionClear:   {"#87CEEB", "#E0F7FA"},
	ConditionCloudy:  {"#B0C4DE", "#ECEFF1"},
	ConditionRain:    {"#4682B4", "#B3E5FC"},
	ConditionSnow:    {"#F0F8FF", "#E3F2FD"},
	ConditionStorm:   {"#2F4F4F", "#546E7A"},
	ConditionDrizzle: {"#5F9EA0", "#80DEEA"},
	ConditionMist:    {"#CFD8DC", "#ECEFF1"},
}

// Colors returns the background gradient (from, to) for the condition.
// Conditions without their own gradient get the default blue.
func (c Condition) Colors() [2]string {
	if g, ok := conditionColors[c]; ok {
		return g
	}
	return [2]string{"#1a73e8", "#64B5F6"}
}

// Snapshot is the normalized current-conditions view of one city.
// It is never persisted on its own; SavedCity embeds a copy of its fields.
type Snapshot struct {
	CityName             string    `json:"cityName"`
	CountryCode          string    `json:"countryCode"`
	TemperatureC         float64   `json:"temperatureC"`
	FeelsLikeC           float64   `json:"feelsLikeC"`
	HumidityPct          int       `json:"humidityPct"`
	PressureHpa          float64   `json:"pressureHpa"`
	WindSpeedMs          float64   `json:"windSpeedMs"`
	ConditionMain        string    `json:"conditionMain"`
	ConditionDescription string    `json:"conditionDescription"`
	IconCode             string    `json:"iconCode"`
	FetchedAt            time.Time `json:"fetchedAt"`
}

// Condition returns the normalized condition for the snapshot.
func (s Snapshot) Condition() Condition {
	return ConditionFromMain(s.ConditionMain)
}

// RoundedTemperature returns the temperature rounded to the nearest degree.
func (s Snapshot) RoundedTemperature() int {
	return int(math.Round(s.TemperatureC))
}

// RoundedFeelsLike returns the feels-like temperature rounded to the nearest degree.
func (s Snapshot) RoundedFeelsLike() int {
	return int(math.Round(s.FeelsLikeC))
}

// RoundedWindSpeed returns the wind speed with one decimal place.
func (s Snapshot) RoundedWindSpeed() float64 {
	return math.Round(s.WindSpeedMs*10) / 10
}

// Display holds preformatted strings for presentation.
type Display struct {
	Temperature string `json:"temp"`
	FeelsLike   string `json:"feelsLike"`
	Humidity    string `json:"humidity"`
	Pressure    string `json:"pressure"`
	WindSpeed   string `json:"windSpeed"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	City        string `json:"city"`
}

// Formatted renders the snapshot for display.
func (s Snapshot) Formatted() Display {
	return Display{
		Temperature: fmt.Sprintf("%d°C", s.RoundedTemperature()),
		FeelsLike:   fmt.Sprintf("%d°C", s.RoundedFeelsLike()),
		Humidity:    fmt.Sprintf("%d%%", s.HumidityPct),
		Pressure:    fmt.Sprintf("%g hPa", s.PressureHpa),
		WindSpeed:   fmt.Sprintf("%.1f m/s", s.WindSpeedMs),
		Description: s.ConditionDescription,
		Icon:        s.IconCode,
		City:        fmt.Sprintf("%s, %s", s.CityName, s.CountryCode),
	}
}

// ForecastEntry is one raw entry of a provider forecast feed.
// Time carries the city's UTC offset when the provider reports one.
type ForecastEntry struct {
	Time    time.Time
	Weather Snapshot
}

// ForecastDay is the first forecast entry seen for a calendar day.
type ForecastDay struct {
	Date    string    `json:"date"` // YYYY-MM-DD in the city's offset
	Time    time.Time `json:"time"`
	Weather Snapshot  `json:"weather"`
}

// CityMatch is a search suggestion returned by the provider.
type CityMatch struct {
	Name         string  `json:"name"`
	CountryCode  string  `json:"countryCode"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	TemperatureC float64 `json:"temperatureC"`
}
