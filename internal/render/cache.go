package render

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"atelier/internal/services"
)

// Cache memoizes pipeline output per document version. The key includes the
// document's update time, so a save invalidates naturally without any
// explicit eviction call. Concurrent requests for the same cold key share
// one pipeline run.
type Cache struct {
	pipeline *Pipeline
	store    *gocache.Cache
	group    singleflight.Group
}

func NewCache(pipeline *Pipeline) *Cache {
	return &Cache{
		pipeline: pipeline,
		store:    gocache.New(1*time.Hour, 10*time.Minute),
	}
}

// Render returns the processed form of a document's HTML, from cache when
// the version has been rendered before.
func (c *Cache) Render(slug string, updatedAt time.Time, stored string) (*Result, error) {
	key := slug + "|" + updatedAt.UTC().Format(time.RFC3339Nano)

	if v, ok := c.store.Get(key); ok {
		c.countHit("hit")
		return v.(*Result), nil
	}
	c.countHit("miss")

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		start := time.Now()
		result, err := c.pipeline.Render(stored)
		if err != nil {
			return nil, err
		}

		if m := services.GetMetrics(); m != nil {
			m.Renders.Inc()
			m.RenderDuration.Observe(time.Since(start).Seconds())
		}

		c.store.Set(key, result, gocache.DefaultExpiration)
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Result), nil
}

func (c *Cache) countHit(result string) {
	if m := services.GetMetrics(); m != nil {
		m.RenderCacheHit.WithLabelValues(result).Inc()
	}
}
