package datastore

import (
	"clima/internal/metrics"
	"clima/internal/models"
	"sync"
)

// Cache keeps loaded tables by year until Refresh is called.
// Safe for concurrent use; the lock is held across a load so a partition is
// read at most once. Errors are not cached.
type Cache struct {
	loader Loader

	mu     sync.Mutex
	tables map[int]*models.Table
	all    *models.Table // concatenation of every partition, never keyed by year
}

// NewCache wraps a loader
func NewCache(loader Loader) *Cache {
	return &Cache{
		loader: loader,
		tables: make(map[int]*models.Table),
	}
}

func (c *Cache) LoadYear(year int) (*models.Table, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if table, ok := c.tables[year]; ok {
		metrics.RecordCacheLookup(true)
		return table, nil
	}
	metrics.RecordCacheLookup(false)

	table, err := c.loader.LoadYear(year)
	if err != nil {
		return nil, err
	}
	c.tables[year] = table
	return table, nil
}

func (c *Cache) LoadAll() (*models.Table, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.all != nil {
		metrics.RecordCacheLookup(true)
		return c.all, nil
	}
	metrics.RecordCacheLookup(false)

	table, err := c.loader.LoadAll()
	if err != nil {
		return nil, err
	}
	c.all = table
	return table, nil
}

// Refresh drops every cached table
func (c *Cache) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables = make(map[int]*models.Table)
	c.all = nil
}
