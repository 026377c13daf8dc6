// internal/domain/catalog/repository.go
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrDuplicateSKU    = errors.New("product with this SKU already exists")
	ErrInvalidProduct  = errors.New("invalid product data")
)

// ListFilter represents product list query parameters
type ListFilter struct {
	Page     int    `form:"page,default=1"`
	Limit    int    `form:"limit,default=20"`
	Category string `form:"category"`
	Search   string `form:"search"`
	MinPrice int64  `form:"min_price"`
	MaxPrice int64  `form:"max_price"`
	InStock  bool   `form:"in_stock"`
}

func (f *ListFilter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
}

// Repository persists catalog products in Postgres
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new catalog repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindActiveByID returns the active product with id
func (r *Repository) FindActiveByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	var product Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	return &product, nil
}

// List returns active products matching filter plus the total count
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Product, int64, error) {
	filter.normalize()

	query := r.db.WithContext(ctx).Model(&Product{}).Where("is_active = ?", true)

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", search, search)
	}
	if filter.MinPrice > 0 {
		query = query.Where("price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		query = query.Where("price <= ?", filter.MaxPrice)
	}
	if filter.InStock {
		query = query.Where("stock > 0 OR track_stock = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var products []Product
	offset := (filter.Page - 1) * filter.Limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve products: %w", err)
	}

	return products, total, nil
}

// Create inserts product, rejecting a duplicate SKU
func (r *Repository) Create(ctx context.Context, product *Product) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Product{}).Where("sku = ?", product.SKU).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check sku: %w", err)
	}
	if count > 0 {
		return ErrDuplicateSKU
	}

	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// UpdateStock sets the stock level of product id
func (r *Repository) UpdateStock(ctx context.Context, id uuid.UUID, stock int) error {
	result := r.db.WithContext(ctx).Model(&Product{}).Where("id = ?", id).Update("stock", stock)
	if result.Error != nil {
		return fmt.Errorf("failed to update stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}
