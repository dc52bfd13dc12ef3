package dataset

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/OldStager01/latency-dashboard/internal/logger"
	"github.com/OldStager01/latency-dashboard/pkg/models"
)

// Cache holds the process-wide measurement table. Readers get the current
// table without locking; Reload builds a new table and swaps it in, so a
// table is never modified after it has been published.
type Cache struct {
	source Source
	loader *Loader

	current  atomic.Pointer[models.Table]
	reloadMu sync.Mutex
	lastErr  atomic.Value
	onLoad   []func(*models.Table)
}

// NewCache reads the table from a local file. An empty path gives a cache
// that never loads.
func NewCache(path string, loader *Loader) *Cache {
	if path == "" {
		return NewSourceCache(nil, loader)
	}
	return NewSourceCache(FileSource(path), loader)
}

func NewSourceCache(src Source, loader *Loader) *Cache {
	if loader == nil {
		loader = NewLoader(time.UTC)
	}
	return &Cache{source: src, loader: loader}
}

// NewStaticCache wraps an already built table. Reload on a static cache
// keeps the table as is.
func NewStaticCache(table *models.Table) *Cache {
	c := &Cache{}
	c.current.Store(table)
	return c
}

// OnLoad registers a callback run after every successful load.
func (c *Cache) OnLoad(fn func(*models.Table)) {
	c.reloadMu.Lock()
	defer c.reloadMu.Unlock()
	c.onLoad = append(c.onLoad, fn)
}

// Path describes where the table is read from.
func (c *Cache) Path() string {
	if c.source == nil {
		return ""
	}
	return c.source.String()
}

// Table returns the current table or ErrNotLoaded.
func (c *Cache) Table() (*models.Table, error) {
	t := c.current.Load()
	if t == nil {
		return nil, ErrNotLoaded
	}
	return t, nil
}

func (c *Cache) Loaded() bool {
	return c.current.Load() != nil
}

// Reload re-reads the source. On failure the previous table stays in place.
func (c *Cache) Reload(ctx context.Context) (*models.Table, error) {
	c.reloadMu.Lock()
	defer c.reloadMu.Unlock()

	if c.source == nil {
		return c.Table()
	}

	start := time.Now()
	table, err := c.loader.LoadSource(ctx, c.source)
	if err != nil {
		c.lastErr.Store(err.Error())
		logger.WithFields(map[string]interface{}{
			"source": c.source.String(),
			"error":  err.Error(),
		}).Error("Measurement table reload failed")
		return nil, err
	}

	c.current.Store(table)
	c.lastErr.Store("")
	logger.Debugf("Reloaded %s in %s", c.source, time.Since(start))

	for _, fn := range c.onLoad {
		fn(table)
	}
	return table, nil
}

// LastError returns the message of the most recent failed reload, if the
// latest attempt failed.
func (c *Cache) LastError() string {
	if v, ok := c.lastErr.Load().(string); ok {
		return v
	}
	return ""
}
