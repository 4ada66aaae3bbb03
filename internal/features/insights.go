package features

import (
	"time"

	"canarycast/internal/cache"
	"canarycast/internal/config"
)

// Insight is an AI-generated narrative summary of an island's forecast
type Insight struct {
	Island      string    `json:"island"`
	Text        string    `json:"text"`
	Model       string    `json:"model"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Insights caches generated narratives so the text backend is only asked
// for a fresh one twice a day.
type Insights struct {
	c cache.Service
}

func NewInsights(c cache.Service) *Insights {
	return &Insights{c: c}
}

// Save stores a generated narrative for its island
func (i *Insights) Save(in Insight) bool {
	return i.c.Set(cache.AIInsights, islandKey(in.Island), in, config.InsightsTTL)
}

// For returns the cached narrative for an island, if still fresh
func (i *Insights) For(island string) (Insight, bool) {
	var in Insight
	ok := i.c.Get(cache.AIInsights, islandKey(island), &in)
	return in, ok
}

// Age reports how old the cached narrative is
func (i *Insights) Age(island string) (time.Duration, bool) {
	return i.c.Age(cache.AIInsights, islandKey(island))
}
