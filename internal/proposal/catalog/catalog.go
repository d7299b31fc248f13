// Package catalog resolves loan products and commercial tables referenced by
// proposals. The engines never look these up themselves; the service layer
// resolves them once per operation and hands down immutable snapshots.
package catalog

import (
	"context"
	"sync"

	"crivo/internal/proposal/models"
	id "crivo/pkg/domain"
	"crivo/pkg/platform/sentinel"
)

// Catalog is the product and pricing lookup port. Implementations return
// sentinel.ErrNotFound for unknown IDs.
type Catalog interface {
	Product(ctx context.Context, productID id.ProductID) (models.Product, error)
	CommercialTable(ctx context.Context, tableID id.CommercialTableID) (models.CommercialTable, error)
}

// InMemoryCatalog serves products and tables from maps. Entries are loaded at
// startup from configuration or seeded by tests.
type InMemoryCatalog struct {
	mu       sync.RWMutex
	products map[id.ProductID]models.Product
	tables   map[id.CommercialTableID]models.CommercialTable
}

// NewInMemory constructs an empty catalog.
func NewInMemory() *InMemoryCatalog {
	return &InMemoryCatalog{
		products: make(map[id.ProductID]models.Product),
		tables:   make(map[id.CommercialTableID]models.CommercialTable),
	}
}

// AddProduct registers a product, replacing any previous entry with the same ID.
func (c *InMemoryCatalog) AddProduct(p models.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[p.ID] = p
}

// AddCommercialTable registers a pricing table, replacing any previous entry
// with the same ID.
func (c *InMemoryCatalog) AddCommercialTable(t models.CommercialTable) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables[t.ID] = t
}

func (c *InMemoryCatalog) Product(_ context.Context, productID id.ProductID) (models.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.products[productID]
	if !ok {
		return models.Product{}, sentinel.ErrNotFound
	}
	return p, nil
}

func (c *InMemoryCatalog) CommercialTable(_ context.Context, tableID id.CommercialTableID) (models.CommercialTable, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.tables[tableID]
	if !ok {
		return models.CommercialTable{}, sentinel.ErrNotFound
	}
	return t, nil
}
