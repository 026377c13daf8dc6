// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/your-org/storefront-backend/internal/domain/ledger"
)

// Store is the persistence the catalog service needs
type Store interface {
	FindActiveByID(ctx context.Context, id uuid.UUID) (*Product, error)
	List(ctx context.Context, filter ListFilter) ([]Product, int64, error)
	Create(ctx context.Context, product *Product) error
	UpdateStock(ctx context.Context, id uuid.UUID, stock int) error
}

// Service handles catalog reads and admin writes. It is the ledger's Catalog.
type Service struct {
	store  Store
	cache  Cache
	logger logrus.FieldLogger
	sfg    singleflight.Group
}

var _ ledger.Catalog = (*Service)(nil)

// NewService creates a new catalog service
func NewService(store Store, cache Cache, logger logrus.FieldLogger) *Service {
	return &Service{
		store:  store,
		cache:  cache,
		logger: logger.WithField("component", "catalog"),
	}
}

// CreateRequest represents product creation data
type CreateRequest struct {
	SKU           string `json:"sku" binding:"required"`
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	Price         int64  `json:"price" binding:"required,min=0"`
	DiscountPrice *int64 `json:"discount_price"`
	Image         string `json:"image"`
	Category      string `json:"category"`
	Brand         string `json:"brand"`
	TrackStock    *bool  `json:"track_stock"`
	Stock         int    `json:"stock" binding:"min=0"`
}

// ListResponse represents a product page
type ListResponse struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// LookupProduct returns the active product with canonical id. Non-canonical ids
// are simply not found.
func (s *Service) LookupProduct(ctx context.Context, id string) (ledger.CatalogProduct, bool, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return ledger.CatalogProduct{}, false, nil
	}

	v, err, _ := s.sfg.Do(id, func() (interface{}, error) {
		cached, err := s.cache.Get(ctx, id)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.logger.WithError(err).Warn("catalog cache read failed")
		}

		product, err := s.store.FindActiveByID(ctx, productID)
		if err != nil {
			return nil, err
		}

		snapshot := product.ToCatalogProduct()
		if err := s.cache.Set(ctx, snapshot); err != nil {
			s.logger.WithError(err).Warn("catalog cache write failed")
		}
		return &snapshot, nil
	})
	if errors.Is(err, ErrProductNotFound) {
		return ledger.CatalogProduct{}, false, nil
	}
	if err != nil {
		return ledger.CatalogProduct{}, false, err
	}

	return *v.(*ledger.CatalogProduct), true, nil
}

// GetProduct returns an active product by id
func (s *Service) GetProduct(ctx context.Context, id string) (*Product, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return s.store.FindActiveByID(ctx, productID)
}

// ListProducts returns a page of active products
func (s *Service) ListProducts(ctx context.Context, filter ListFilter) (*ListResponse, error) {
	filter.normalize()

	products, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &ListResponse{
		Products: products,
		Pagination: Pagination{
			Page:       filter.Page,
			Limit:      filter.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    filter.Page < totalPages,
			HasPrev:    filter.Page > 1,
		},
	}, nil
}

// CreateProduct adds a product to the catalog
func (s *Service) CreateProduct(ctx context.Context, req *CreateRequest) (*Product, error) {
	if req.DiscountPrice != nil && (*req.DiscountPrice < 0 || *req.DiscountPrice > req.Price) {
		return nil, fmt.Errorf("%w: discount price must be between 0 and price", ErrInvalidProduct)
	}

	trackStock := true
	if req.TrackStock != nil {
		trackStock = *req.TrackStock
	}

	product := &Product{
		SKU:           strings.TrimSpace(req.SKU),
		Name:          strings.TrimSpace(req.Name),
		Slug:          generateSlug(req.Name, req.SKU),
		Description:   req.Description,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		Image:         req.Image,
		Category:      req.Category,
		Brand:         req.Brand,
		TrackStock:    trackStock,
		Stock:         req.Stock,
		IsActive:      true,
	}
	if err := s.store.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"product_id": product.ID, "sku": product.SKU}).Info("product created")
	return product, nil
}

// UpdateStock sets the stock of a product and drops its cached snapshot
func (s *Service) UpdateStock(ctx context.Context, id string, stock int) (*Product, error) {
	if stock < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", ErrInvalidProduct)
	}
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	if err := s.store.UpdateStock(ctx, productID, stock); err != nil {
		return nil, err
	}
	if err := s.cache.Delete(ctx, productID.String()); err != nil {
		s.logger.WithError(err).WithField("product_id", id).Warn("catalog cache invalidation failed")
	}

	return s.store.FindActiveByID(ctx, productID)
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// generateSlug generates URL-friendly slug from name, suffixed by the SKU for uniqueness
func generateSlug(name, sku string) string {
	slug := strings.Trim(slugStrip.ReplaceAllString(strings.ToLower(name), "-"), "-")
	suffix := strings.Trim(slugStrip.ReplaceAllString(strings.ToLower(sku), "-"), "-")
	if suffix == "" {
		return slug
	}
	return slug + "-" + suffix
}
