package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/angin-nusantara/internal/weather"
)

const (
	DefaultOpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5"
	DefaultLanguage           = "id"
	DefaultForecastCount      = 5
	searchCount               = 5
)

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name          string
	apiKey        string
	baseURL       string
	lang          string
	forecastCount int
	httpCfg       HTTPClientConfig
	circuit       *gobreaker.CircuitBreaker
}

// Option customizes an OpenWeatherProvider.
type Option func(*OpenWeatherProvider)

// WithBaseURL points the provider at a different API root (no trailing slash needed).
func WithBaseURL(u string) Option {
	return func(p *OpenWeatherProvider) {
		if u != "" {
			p.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithLanguage sets the language used for condition descriptions.
func WithLanguage(lang string) Option {
	return func(p *OpenWeatherProvider) {
		if lang != "" {
			p.lang = lang
		}
	}
}

// WithForecastCount sets the number of raw forecast entries requested.
func WithForecastCount(n int) Option {
	return func(p *OpenWeatherProvider) {
		if n > 0 {
			p.forecastCount = n
		}
	}
}

// WithBackoff overrides retry behaviour.
func WithBackoff(b BackoffConfig) Option {
	return func(p *OpenWeatherProvider) {
		p.httpCfg.Backoff = b
	}
}

func NewOpenWeatherProvider(client *http.Client, apiKey string, opts ...Option) *OpenWeatherProvider {
	p := &OpenWeatherProvider{
		name:          "openweathermap",
		apiKey:        apiKey,
		baseURL:       DefaultOpenWeatherBaseURL,
		lang:          DefaultLanguage,
		forecastCount: DefaultForecastCount,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: DefaultBackoff,
		},
		circuit: newCircuitBreaker("openweather"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// statusCode decodes the "cod" field, which the API sends as a number on
// /weather and as a string on /forecast, /find and error bodies.
type statusCode int

func (c *statusCode) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*c = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid cod %q: %w", s, err)
	}
	*c = statusCode(n)
	return nil
}

type envelope struct {
	Cod     statusCode `json:"cod"`
	Message string     `json:"message"`
}

func (e envelope) check() error {
	switch e.Cod {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", weather.ErrCityNotFound, e.Message)
	default:
		return fmt.Errorf("%w: cod %d: %s", weather.ErrProvider, e.Cod, e.Message)
	}
}

type checker interface {
	check() error
}

type conditionPayload struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type mainPayload struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Humidity  int     `json:"humidity"`
	Pressure  float64 `json:"pressure"`
}

type windPayload struct {
	Speed float64 `json:"speed"`
}

type currentPayload struct {
	envelope
	Name string `json:"name"`
	Dt   int64  `json:"dt"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main    mainPayload        `json:"main"`
	Wind    windPayload        `json:"wind"`
	Weather []conditionPayload `json:"weather"`
}

type forecastPayload struct {
	envelope
	List []struct {
		Dt      int64              `json:"dt"`
		Main    mainPayload        `json:"main"`
		Wind    windPayload        `json:"wind"`
		Weather []conditionPayload `json:"weather"`
	} `json:"list"`
	City struct {
		Name     string `json:"name"`
		Country  string `json:"country"`
		Timezone int    `json:"timezone"`
	} `json:"city"`
}

type findPayload struct {
	envelope
	List []struct {
		Name  string `json:"name"`
		Coord struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coord"`
		Main mainPayload `json:"main"`
		Sys  struct {
			Country string `json:"country"`
		} `json:"sys"`
	} `json:"list"`
}

func (p *OpenWeatherProvider) Current(ctx context.Context, city string) (weather.Snapshot, error) {
	values := url.Values{}
	values.Set("q", city)
	values.Set("units", "metric")
	values.Set("lang", p.lang)

	var payload currentPayload
	if err := p.get(ctx, "weather", values, &payload); err != nil {
		return weather.Snapshot{}, err
	}

	ts := time.Now().UTC()
	if payload.Dt > 0 {
		ts = time.Unix(payload.Dt, 0).UTC()
	}

	snap := toSnapshot(payload.Main, payload.Wind, payload.Weather)
	snap.CityName = payload.Name
	snap.CountryCode = payload.Sys.Country
	snap.FetchedAt = ts
	return snap, nil
}

func (p *OpenWeatherProvider) Forecast(ctx context.Context, city string) ([]weather.ForecastEntry, error) {
	values := url.Values{}
	values.Set("q", city)
	values.Set("units", "metric")
	values.Set("lang", p.lang)
	values.Set("cnt", strconv.Itoa(p.forecastCount))

	var payload forecastPayload
	if err := p.get(ctx, "forecast", values, &payload); err != nil {
		return nil, err
	}

	zone := time.UTC
	if payload.City.Timezone != 0 {
		zone = time.FixedZone("", payload.City.Timezone)
	}

	entries := make([]weather.ForecastEntry, 0, len(payload.List))
	for _, item := range payload.List {
		ts := time.Unix(item.Dt, 0).In(zone)

		snap := toSnapshot(item.Main, item.Wind, item.Weather)
		snap.CityName = payload.City.Name
		snap.CountryCode = payload.City.Country
		snap.FetchedAt = ts

		entries = append(entries, weather.ForecastEntry{Time: ts, Weather: snap})
	}
	return entries, nil
}

func (p *OpenWeatherProvider) Search(ctx context.Context, query string) ([]weather.CityMatch, error) {
	values := url.Values{}
	values.Set("q", query)
	values.Set("type", "like")
	values.Set("sort", "population")
	values.Set("cnt", strconv.Itoa(searchCount))
	values.Set("units", "metric")

	var payload findPayload
	if err := p.get(ctx, "find", values, &payload); err != nil {
		return nil, err
	}

	matches := make([]weather.CityMatch, 0, len(payload.List))
	for _, item := range payload.List {
		matches = append(matches, weather.CityMatch{
			Name:         item.Name,
			CountryCode:  item.Sys.Country,
			Lat:          item.Coord.Lat,
			Lon:          item.Coord.Lon,
			TemperatureC: item.Main.Temp,
		})
	}
	return matches, nil
}

// get performs a GET on {baseURL}/{endpoint}, decodes the JSON body into out
// and validates its "cod" field.
func (p *OpenWeatherProvider) get(ctx context.Context, endpoint string, values url.Values, out checker) error {
	if p.apiKey == "" {
		return fmt.Errorf("openweather api key is not configured")
	}
	values.Set("appid", p.apiKey)

	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s/%s?%s", p.baseURL, endpoint, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var env envelope
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(body, &env) != nil || env.Cod == 0 {
			env.Cod = statusCode(resp.StatusCode)
		}
		if env.Cod == http.StatusOK {
			env.Cod = statusCode(resp.StatusCode)
		}
		return env.check()
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", weather.ErrProvider, endpoint, err)
	}
	return out.check()
}

func toSnapshot(m mainPayload, w windPayload, conds []conditionPayload) weather.Snapshot {
	snap := weather.Snapshot{
		TemperatureC: m.Temp,
		FeelsLikeC:   m.FeelsLike,
		HumidityPct:  m.Humidity,
		PressureHpa:  m.Pressure,
		WindSpeedMs:  w.Speed,
	}
	if len(conds) > 0 {
		snap.ConditionMain = conds[0].Main
		snap.ConditionDescription = conds[0].Description
		snap.IconCode = conds[0].Icon
	}
	return snap
}
