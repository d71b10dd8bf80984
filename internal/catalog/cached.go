package catalog

import (
	"context"
	"slices"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/digestiflow/flowsheet/pkg/logging"
	"github.com/digestiflow/flowsheet/pkg/samplesheet"
)

// Cached keeps the barcode sets fetched from another source for a while.
// Failed fetches are not cached.
type Cached struct {
	src    Source
	store  *gocache.Cache
	hits   atomic.Int64
	misses atomic.Int64
	logger *zerolog.Logger
}

// CacheStats reports the cache usage.
type CacheStats struct {
	Projects int   `json:"projects"`
	Hits     int64 `json:"hits"`
	Misses   int64 `json:"misses"`
}

// NewCached wraps src. Entries expire after ttl; expired entries are swept
// at twice that interval.
func NewCached(src Source, ttl time.Duration, logger *zerolog.Logger) *Cached {
	return &Cached{
		src:    src,
		store:  gocache.New(ttl, 2*ttl),
		logger: logging.OrNop(logger),
	}
}

// BarcodeSets implements Source. The returned slice is a copy of the cached
// one.
func (c *Cached) BarcodeSets(ctx context.Context, project string) ([]samplesheet.BarcodeSet, error) {
	if v, ok := c.store.Get(project); ok {
		c.hits.Add(1)
		return cloneSets(v.([]samplesheet.BarcodeSet)), nil
	}
	c.misses.Add(1)

	sets, err := c.src.BarcodeSets(ctx, project)
	if err != nil {
		return nil, err
	}
	c.store.Set(project, cloneSets(sets), gocache.DefaultExpiration)
	c.logger.Debug().Str("project", project).Int("sets", len(sets)).Msg("cached barcode sets")
	return sets, nil
}

// Invalidate drops the cached sets of project, or of every project when
// project is empty.
func (c *Cached) Invalidate(project string) {
	if project == "" {
		c.store.Flush()
		return
	}
	c.store.Delete(project)
}

// Stats returns the current cache statistics.
func (c *Cached) Stats() CacheStats {
	return CacheStats{
		Projects: c.store.ItemCount(),
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
	}
}

func cloneSets(sets []samplesheet.BarcodeSet) []samplesheet.BarcodeSet {
	out := slices.Clone(sets)
	for i := range out {
		out[i].Entries = slices.Clone(out[i].Entries)
		for j := range out[i].Entries {
			out[i].Entries[j].Aliases = slices.Clone(out[i].Entries[j].Aliases)
		}
	}
	return out
}
