package cities

import (
	"time"

	"github.com/i474232898/angin-nusantara/internal/weather"
)

// WeatherData is the copy of a weather snapshot embedded in a saved city.
type WeatherData struct {
	Temperature int     `json:"temperature" firestore:"temperature"`
	FeelsLike   int     `json:"feelsLike" firestore:"feelsLike"`
	Condition   string  `json:"condition" firestore:"condition"`
	Description string  `json:"description" firestore:"description"`
	Humidity    int     `json:"humidity" firestore:"humidity"`
	WindSpeed   float64 `json:"windSpeed" firestore:"windSpeed"`
	Icon        string  `json:"icon" firestore:"icon"`
}

// WeatherDataFrom captures the display values of s (rounded temperatures, one-decimal wind).
func WeatherDataFrom(s weather.Snapshot) WeatherData {
	return WeatherData{
		Temperature: s.RoundedTemperature(),
		FeelsLike:   s.RoundedFeelsLike(),
		Condition:   s.ConditionMain,
		Description: s.ConditionDescription,
		Humidity:    s.HumidityPct,
		WindSpeed:   s.RoundedWindSpeed(),
		Icon:        s.IconCode,
	}
}

// SavedCity is a city a user pinned, owned by exactly one user.
type SavedCity struct {
	ID          string      `json:"id" firestore:"-"`
	UserID      string      `json:"userId" firestore:"userId"`
	CityName    string      `json:"cityName" firestore:"cityName"`
	CountryCode string      `json:"country" firestore:"country"`
	Weather     WeatherData `json:"weatherData" firestore:"weatherData"`
	CreatedAt   time.Time   `json:"createdAt" firestore:"createdAt"`
	LastUpdated time.Time   `json:"lastUpdated" firestore:"lastUpdated"`
}

// Listing is the result of Service.List.
type Listing struct {
	Cities    []SavedCity `json:"cities"`
	FromCache bool        `json:"fromCache"`
}
