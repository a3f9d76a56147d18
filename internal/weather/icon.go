package weather

import "fmt"

const iconURLFormat = "https://openweathermap.org/img/wn/%s@2x.png"

// IconURL builds the OpenWeatherMap icon URL for an icon code.
// The code is not validated; unknown codes yield a URL that simply 404s.
func IconURL(code string) string {
	return fmt.Sprintf(iconURLFormat, code)
}
