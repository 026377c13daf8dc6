package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

const (
	p1 = "0b6f6e0a-3c1d-4a8e-9d3a-6f1f3e2a9b01"
	p2 = "5a2d7c44-8e1b-4b7f-a0c2-1d9e8f7a6b02"
	p3 = "9c4e1f88-2a7d-4e5b-b1f3-7e6d5c4b3a03"
)

var errCatalogDown = errors.New("catalog unavailable")

type fakeCatalog struct {
	mu       sync.Mutex
	products map[string]CatalogProduct
	err      error
	lookups  int
}

func newFakeCatalog(products ...CatalogProduct) *fakeCatalog {
	c := &fakeCatalog{products: map[string]CatalogProduct{}}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

func (c *fakeCatalog) LookupProduct(_ context.Context, id string) (CatalogProduct, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lookups++
	if c.err != nil {
		return CatalogProduct{}, false, c.err
	}
	p, ok := c.products[id]
	return p, ok, nil
}

func (c *fakeCatalog) setStock(id string, stock int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.products[id]
	p.Stock = stock
	c.products[id] = p
}

func (c *fakeCatalog) setPrice(id string, price int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.products[id]
	p.Price = price
	c.products[id] = p
}

func tracked(id, name string, price int64, stock int) CatalogProduct {
	return CatalogProduct{ID: id, Name: name, Price: price, Stock: stock, TrackStock: true}
}

func price(v int64) *int64 { return &v }

func mock(name string, p int64) *InlineDescriptor {
	return &InlineDescriptor{Name: name, Price: price(p)}
}

var fixedNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

// testEnv returns an Env with deterministic ids and clock plus a hook capturing logs.
func testEnv(t *testing.T, catalog Catalog) (Env, *logtest.Hook) {
	t.Helper()
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	seq := 0
	return Env{
		Resolver: NewResolver(catalog),
		Now:      func() time.Time { return fixedNow },
		NewID: func() string {
			seq++
			return fmt.Sprintf("entry-%02d", seq)
		},
		Logger: logger,
	}, hook
}
