package schemainfo

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// fullSummaryKey is the cache key for the whole-database summary. It can
// never collide with a scoped key because table names cannot contain '!'.
const fullSummaryKey = "!full"

// Cache memoizes formatted metadata. Schema text is rebuilt from PRAGMA
// queries and row counts on every pipeline run otherwise; the underlying
// data changes rarely, so entries live until an explicit Invalidate
// (the schema refresh operation) or LRU eviction.
type Cache struct {
	formatter *Formatter
	entries   *lru.Cache[string, string]
}

// NewCache creates a Cache over the given metadata source with room for
// maxEntries formatted scopes.
func NewCache(db Introspector, maxEntries int) (*Cache, error) {
	if maxEntries <= 0 {
		maxEntries = 64
	}
	entries, err := lru.New[string, string](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("schemainfo: creating LRU: %w", err)
	}
	return &Cache{
		formatter: NewFormatter(db),
		entries:   entries,
	}, nil
}

// Tables returns the table inventory from the underlying source. The
// inventory is not cached; it is one cheap catalog query.
func (c *Cache) Tables() ([]string, error) {
	return c.formatter.db.Tables()
}

// Scoped returns focused metadata text for the given tables, cached by
// the exact table list.
func (c *Cache) Scoped(tables []string) string {
	key := strings.Join(tables, ",")
	if text, ok := c.entries.Get(key); ok {
		return text
	}
	text := c.formatter.Format(tables)
	c.entries.Add(key, text)
	return text
}

// FullSummary returns the whole-database summary, cached.
func (c *Cache) FullSummary() (string, error) {
	if text, ok := c.entries.Get(fullSummaryKey); ok {
		return text, nil
	}
	text, err := c.formatter.FullSummary()
	if err != nil {
		return "", err
	}
	c.entries.Add(fullSummaryKey, text)
	return text, nil
}

// Invalidate drops every cached entry. Call after the underlying data
// changes (reseeding, manual edits).
func (c *Cache) Invalidate() {
	c.entries.Purge()
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return c.entries.Len()
}
