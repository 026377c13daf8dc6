// internal/domain/ledger/resolver.go
package ledger

import (
	"context"
	"fmt"
)

// CatalogProduct is what the catalog knows about a canonical product.
type CatalogProduct struct {
	ID            string
	Name          string
	Price         int64
	DiscountPrice *int64
	Image         string
	Category      string
	Brand         string
	Stock         int
	TrackStock    bool
}

// Catalog looks up products by canonical id. found is false when the id has no
// active catalog entry.
type Catalog interface {
	LookupProduct(ctx context.Context, id string) (product CatalogProduct, found bool, err error)
}

// ResolveRequest describes one resolution.
type ResolveRequest struct {
	Ref        string
	Descriptor *InlineDescriptor
	// Quantity is the increment being requested.
	Quantity int
	// Held is the quantity the ledger already holds for this product.
	Held int
	// CheckStock enables the stock check. Only the cart add path sets it.
	CheckStock bool
}

// Resolver turns product references into snapshots. It is the only place that
// decides between catalog and inline data.
type Resolver struct {
	catalog Catalog
}

// NewResolver creates a resolver backed by catalog
func NewResolver(catalog Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve returns the snapshot for req.Ref.
func (r *Resolver) Resolve(ctx context.Context, req ResolveRequest) (ProductSnapshot, error) {
	source, err := SourceOf(req.Ref, req.Descriptor)
	if err != nil {
		return ProductSnapshot{}, err
	}

	var snap ProductSnapshot
	switch src := source.(type) {
	case InlineSource:
		snap = fromDescriptor(src.ID, src.Descriptor)
	case CatalogSource:
		snap, err = r.lookup(ctx, src.ID)
		if err != nil {
			return ProductSnapshot{}, err
		}
	}

	if req.CheckStock && !snap.Unbounded() && req.Quantity > snap.AvailableStock-req.Held {
		return ProductSnapshot{}, &StockError{
			ProductRef: snap.ID,
			Available:  snap.AvailableStock,
			Held:       req.Held,
		}
	}

	return snap, nil
}

func (r *Resolver) lookup(ctx context.Context, id string) (ProductSnapshot, error) {
	if r.catalog == nil {
		return ProductSnapshot{}, fmt.Errorf("resolve %s: no catalog configured", id)
	}

	prod, found, err := r.catalog.LookupProduct(ctx, id)
	if err != nil {
		return ProductSnapshot{}, fmt.Errorf("resolve %s: %w", id, err)
	}
	if !found {
		return ProductSnapshot{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}

	stock := prod.Stock
	if !prod.TrackStock {
		stock = UnboundedStock
	}
	if stock < 0 {
		stock = 0
	}

	return ProductSnapshot{
		ID:             id,
		Source:         SourceCatalog,
		Name:           prod.Name,
		UnitPrice:      prod.Price,
		EffectivePrice: effectivePrice(prod.Price, prod.DiscountPrice),
		Image:          prod.Image,
		Category:       prod.Category,
		Brand:          prod.Brand,
		AvailableStock: stock,
	}, nil
}

func fromDescriptor(ref string, d InlineDescriptor) ProductSnapshot {
	return ProductSnapshot{
		ID:             ref,
		Source:         SourceInline,
		Name:           d.Name,
		UnitPrice:      *d.Price,
		EffectivePrice: effectivePrice(*d.Price, d.DiscountPrice),
		Image:          d.Image,
		Category:       d.Category,
		Brand:          d.Brand,
		AvailableStock: UnboundedStock,
	}
}
