// Package features holds the typed wrappers the app uses to read and write
// cached data. Each wrapper owns one feature's namespaces, keys, and TTLs;
// nothing else in the repo composes storage keys.
package features

import (
	"strings"
	"time"

	"canarycast/internal/cache"
	"canarycast/internal/config"
)

// CurrentConditions is one observed weather snapshot for an island
type CurrentConditions struct {
	Island     string    `json:"island"`
	TempC      float64   `json:"tempC"`
	Condition  string    `json:"condition"`
	Humidity   int       `json:"humidity"`
	WindKph    float64   `json:"windKph"`
	ObservedAt time.Time `json:"observedAt"`
}

// ForecastDay is one day of a multi-day forecast
type ForecastDay struct {
	Date      string  `json:"date"` // YYYY-MM-DD
	MinC      float64 `json:"minC"`
	MaxC      float64 `json:"maxC"`
	Condition string  `json:"condition"`
	PrecipMM  float64 `json:"precipMM"`
}

// Weather caches current conditions and forecasts per island
type Weather struct {
	c cache.Service
}

func NewWeather(c cache.Service) *Weather {
	return &Weather{c: c}
}

// SaveCurrent stores the latest observed conditions for an island
func (w *Weather) SaveCurrent(cc CurrentConditions) bool {
	return w.c.Set(cache.Weather, currentKey(cc.Island), cc, config.WeatherTTL)
}

// Current returns the cached conditions for an island, if still fresh
func (w *Weather) Current(island string) (CurrentConditions, bool) {
	var cc CurrentConditions
	ok := w.c.Get(cache.Weather, currentKey(island), &cc)
	return cc, ok
}

// CurrentAge reports how old the cached conditions are, for "last updated"
// displays. Works on expired entries too, until the sweep removes them.
func (w *Weather) CurrentAge(island string) (time.Duration, bool) {
	return w.c.Age(cache.Weather, currentKey(island))
}

// SaveForecast stores the multi-day forecast for an island
func (w *Weather) SaveForecast(island string, days []ForecastDay) bool {
	return w.c.Set(cache.WeatherData, forecastKey(island), days, config.ForecastTTL)
}

// Forecast returns the cached forecast for an island, if still fresh
func (w *Weather) Forecast(island string) ([]ForecastDay, bool) {
	var days []ForecastDay
	ok := w.c.Get(cache.WeatherData, forecastKey(island), &days)
	return days, ok
}

// ClearForecasts drops all cached forecast detail data
func (w *Weather) ClearForecasts() bool {
	return w.c.ClearNamespace(cache.WeatherData)
}

func currentKey(island string) string {
	return "current_" + islandKey(island)
}

func forecastKey(island string) string {
	return "forecast_" + islandKey(island)
}

// islandKey normalizes an island name into a stable cache key segment
func islandKey(island string) string {
	k := strings.ToLower(strings.TrimSpace(island))
	return strings.ReplaceAll(k, " ", "-")
}
