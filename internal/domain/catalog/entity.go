// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/domain/ledger"
)

// Product represents a catalog entry. Its ID is the canonical product reference.
type Product struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SKU           string         `gorm:"uniqueIndex;not null;size:100" json:"sku"`
	Name          string         `gorm:"not null;size:255" json:"name"`
	Slug          string         `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description   string         `gorm:"type:text" json:"description"`
	Price         int64          `gorm:"not null" json:"price"` // Price in minor units
	DiscountPrice *int64         `json:"discount_price,omitempty"`
	Image         string         `gorm:"size:500" json:"image"`
	Category      string         `gorm:"size:100;index" json:"category"`
	Brand         string         `gorm:"size:100" json:"brand"`
	TrackStock    bool           `gorm:"not null" json:"track_stock"`
	Stock         int            `gorm:"not null" json:"stock"`
	IsActive      bool           `gorm:"not null;index" json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Product) TableName() string { return "products" }

// BeforeCreate assigns the canonical id
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *Product) IsInStock() bool {
	return p.Stock > 0 || !p.TrackStock
}

// EffectivePrice is the discount price when set and not above Price.
func (p *Product) EffectivePrice() int64 {
	if p.DiscountPrice != nil && *p.DiscountPrice >= 0 && *p.DiscountPrice <= p.Price {
		return *p.DiscountPrice
	}
	return p.Price
}

// ToCatalogProduct converts the entity to what the resolver consumes.
func (p *Product) ToCatalogProduct() ledger.CatalogProduct {
	return ledger.CatalogProduct{
		ID:            p.ID.String(),
		Name:          p.Name,
		Price:         p.Price,
		DiscountPrice: p.DiscountPrice,
		Image:         p.Image,
		Category:      p.Category,
		Brand:         p.Brand,
		Stock:         p.Stock,
		TrackStock:    p.TrackStock,
	}
}
