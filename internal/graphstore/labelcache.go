package graphstore

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// labelCache memoizes label and type lookups on the neighborhood read
// path. Taxonomy nodes are shared by many events, so a small LRU removes
// most of the per-neighbor round trips.
type labelCache struct {
	labels *lru.Cache[string, string]
	types  *lru.Cache[string, string]
}

func newLabelCache(size int) *labelCache {
	if size <= 0 {
		size = 1
	}
	labels, _ := lru.New[string, string](size)
	types, _ := lru.New[string, string](size)
	return &labelCache{labels: labels, types: types}
}

func (c *labelCache) getLabel(iri string) (string, bool) {
	return c.labels.Get(iri)
}

func (c *labelCache) putLabel(iri, label string) {
	c.labels.Add(iri, label)
}

func (c *labelCache) getType(iri string) (string, bool) {
	return c.types.Get(iri)
}

func (c *labelCache) putType(iri, typeName string) {
	c.types.Add(iri, typeName)
}
