// internal/catalog/catalog.go
package catalog

import (
	"strings"

	"career-workers/internal/models"

	"github.com/ecodeclub/ekit/slice"
)

// Catalog is an immutable, ordered set of career records. Build it once with
// New and share the pointer; nothing mutates it afterwards.
type Catalog struct {
	records []models.CareerRecord
	byName  map[string]int
	streams []string
}

// New copies records into a catalog, keeping their order.
func New(records []models.CareerRecord) *Catalog {
	c := &Catalog{
		records: slice.Map(records, func(_ int, r models.CareerRecord) models.CareerRecord {
			return r.Clone()
		}),
		byName: make(map[string]int, len(records)),
	}

	seenStream := make(map[string]bool)
	for i, r := range c.records {
		key := nameKey(r.Name)
		// first occurrence wins for lookups
		if _, ok := c.byName[key]; !ok {
			c.byName[key] = i
		}
		sk := strings.ToLower(strings.TrimSpace(r.Stream))
		if sk != "" && !seenStream[sk] {
			seenStream[sk] = true
			c.streams = append(c.streams, strings.TrimSpace(r.Stream))
		}
	}
	return c
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.records)
}

// Records returns a copy of every record in catalog order.
func (c *Catalog) Records() []models.CareerRecord {
	if c == nil {
		return []models.CareerRecord{}
	}
	return slice.Map(c.records, func(_ int, r models.CareerRecord) models.CareerRecord {
		return r.Clone()
	})
}

// Lookup finds a record by name, ignoring case and surrounding space.
func (c *Catalog) Lookup(name string) (models.CareerRecord, bool) {
	if c == nil {
		return models.CareerRecord{}, false
	}
	i, ok := c.byName[nameKey(name)]
	if !ok {
		return models.CareerRecord{}, false
	}
	return c.records[i].Clone(), true
}

// Streams lists distinct streams in order of first appearance.
func (c *Catalog) Streams() []string {
	if c == nil {
		return []string{}
	}
	return append([]string{}, c.streams...)
}

// Names lists record names in catalog order.
func (c *Catalog) Names() []string {
	if c == nil {
		return []string{}
	}
	return slice.Map(c.records, func(_ int, r models.CareerRecord) string {
		return r.Name
	})
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
