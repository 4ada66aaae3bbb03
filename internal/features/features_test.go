package features

import (
	"testing"
	"time"

	"canarycast/internal/cache"
	"canarycast/internal/store"
)

func newTestCache() *cache.Cache {
	return cache.New(store.NewMemoryStore())
}

func TestWeatherRoundTrip(t *testing.T) {
	w := NewWeather(newTestCache())

	in := CurrentConditions{
		Island:     "El Paso",
		TempC:      24.5,
		Condition:  "sunny",
		Humidity:   48,
		WindKph:    17.3,
		ObservedAt: time.Date(2026, 8, 23, 11, 45, 0, 0, time.UTC),
	}
	if !w.SaveCurrent(in) {
		t.Fatal("SaveCurrent failed")
	}

	out, ok := w.Current("El Paso")
	if !ok {
		t.Fatal("Current missed immediately after save")
	}
	if out.TempC != in.TempC || out.Condition != in.Condition || !out.ObservedAt.Equal(in.ObservedAt) {
		t.Errorf("read %+v, want %+v", out, in)
	}

	if age, ok := w.CurrentAge("El Paso"); !ok || age < 0 {
		t.Errorf("CurrentAge = (%v, %v), want a non-negative age", age, ok)
	}
}

func TestIslandNameNormalization(t *testing.T) {
	w := NewWeather(newTestCache())

	w.SaveCurrent(CurrentConditions{Island: "El Paso", TempC: 22})

	// Spelling and case variants resolve to the same cache entry
	if _, ok := w.Current("el paso"); !ok {
		t.Error("lowercase island name missed the cached entry")
	}
	if _, ok := w.Current("  El Paso "); !ok {
		t.Error("padded island name missed the cached entry")
	}
	if _, ok := w.Current("el-paso"); ok {
		t.Log("pre-normalized lookups are not supported; miss is expected")
	}
}

func TestForecastRoundTrip(t *testing.T) {
	w := NewWeather(newTestCache())

	days := []ForecastDay{
		{Date: "2026-08-24", MinC: 19, MaxC: 27, Condition: "sunny", PrecipMM: 0},
		{Date: "2026-08-25", MinC: 20, MaxC: 26, Condition: "cloudy", PrecipMM: 1.2},
	}
	if !w.SaveForecast("Tenerife", days) {
		t.Fatal("SaveForecast failed")
	}

	out, ok := w.Forecast("Tenerife")
	if !ok || len(out) != 2 {
		t.Fatalf("Forecast = (%v, %v), want both days back", out, ok)
	}
	if out[1].Condition != "cloudy" {
		t.Errorf("day 2 condition = %q, want cloudy", out[1].Condition)
	}
}

func TestClearForecastsLeavesOtherFeatures(t *testing.T) {
	c := newTestCache()
	w := NewWeather(c)
	p := NewPlaces(c)

	w.SaveForecast("La Palma", []ForecastDay{{Date: "2026-08-24"}})
	p.SaveNearby("La Palma", "beach", []POI{{ID: "1", Name: "Playa de Tazacorte"}})

	if !w.ClearForecasts() {
		t.Fatal("ClearForecasts failed")
	}

	if _, ok := w.Forecast("La Palma"); ok {
		t.Error("forecast survived ClearForecasts")
	}
	if _, ok := p.Nearby("La Palma", "beach"); !ok {
		t.Error("POI list was removed by a forecast clear")
	}
}

func TestPlacesForget(t *testing.T) {
	p := NewPlaces(newTestCache())

	p.SaveNearby("Lanzarote", "viewpoint", []POI{{ID: "1", Name: "Mirador del Río"}})
	p.SaveNearby("Lanzarote", "beach", []POI{{ID: "2", Name: "Playa Papagayo"}})

	if !p.Forget("Lanzarote", "viewpoint") {
		t.Fatal("Forget failed")
	}
	if _, ok := p.Nearby("Lanzarote", "viewpoint"); ok {
		t.Error("forgotten category still cached")
	}
	if _, ok := p.Nearby("Lanzarote", "beach"); !ok {
		t.Error("Forget removed an unrelated category")
	}
}

func TestInsightsRoundTrip(t *testing.T) {
	i := NewInsights(newTestCache())

	in := Insight{
		Island:      "La Gomera",
		Text:        "Expect calm mornings with trade winds picking up after noon.",
		Model:       "narrative-v2",
		GeneratedAt: time.Date(2026, 8, 23, 6, 0, 0, 0, time.UTC),
	}
	if !i.Save(in) {
		t.Fatal("Save failed")
	}

	out, ok := i.For("la gomera")
	if !ok {
		t.Fatal("For missed immediately after save")
	}
	if out.Text != in.Text || out.Model != in.Model {
		t.Errorf("read %+v, want %+v", out, in)
	}

	if _, ok := i.Age("La Gomera"); !ok {
		t.Error("Age missed for a cached insight")
	}
}

func TestAlertsClear(t *testing.T) {
	a := NewAlertFeed(newTestCache())

	a.Save("Fuerteventura", []Alert{{ID: "w1", Event: "wind", Severity: "yellow"}})
	if _, ok := a.Active("Fuerteventura"); !ok {
		t.Fatal("Active missed immediately after save")
	}

	if !a.Clear() {
		t.Fatal("Clear failed")
	}
	if _, ok := a.Active("Fuerteventura"); ok {
		t.Error("alerts survived Clear")
	}
}
