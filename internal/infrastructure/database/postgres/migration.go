// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/domain/catalog"
)

// Migration handles catalog schema migrations
type Migration struct {
	db     *gorm.DB
	logger logrus.FieldLogger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, logger logrus.FieldLogger) *Migration {
	return &Migration{db: db, logger: logger}
}

// RunAutoMigrations migrates the catalog tables
func (m *Migration) RunAutoMigrations() error {
	models := []interface{}{
		&catalog.Product{},
	}

	for _, model := range models {
		m.logger.Debugf("migrating model %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.logger.Info("database auto-migrations completed")
	return nil
}

// CreateIndexes creates the indexes listing queries rely on. Failures are logged, not returned.
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_products_category_active ON products(category, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",
	}

	failed := 0
	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			m.logger.WithError(err).Warn("failed to create index")
			failed++
		}
	}

	m.logger.WithFields(logrus.Fields{
		"created": len(indexes) - failed,
		"failed":  failed,
	}).Info("database indexes ensured")
	return nil
}

// SeedProducts inserts a few development products unless their SKUs already exist
func (m *Migration) SeedProducts() error {
	discount := int64(179999)
	products := []catalog.Product{
		{
			SKU:           "DEV-LAPTOP-001",
			Name:          "Premium Gaming Laptop",
			Slug:          "premium-gaming-laptop",
			Description:   "High-performance gaming laptop with dedicated graphics.",
			Price:         199999,
			DiscountPrice: &discount,
			Category:      "electronics",
			Brand:         "Acme",
			TrackStock:    true,
			Stock:         25,
			IsActive:      true,
		},
		{
			SKU:         "DEV-MOUSE-002",
			Name:        "Wireless Gaming Mouse",
			Slug:        "wireless-gaming-mouse",
			Description: "Ergonomic wireless mouse with a high-precision sensor.",
			Price:       7999,
			Category:    "electronics",
			Brand:       "Acme",
			TrackStock:  true,
			Stock:       50,
			IsActive:    true,
		},
		{
			SKU:         "DEV-EBOOK-003",
			Name:        "Cooking With Spices (eBook)",
			Slug:        "cooking-with-spices-ebook",
			Description: "Digital download, never out of stock.",
			Price:       49900,
			Category:    "books",
			TrackStock:  false,
			IsActive:    true,
		},
	}

	for i := range products {
		var count int64
		if err := m.db.Model(&catalog.Product{}).Where("sku = ?", products[i].SKU).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check product %s: %w", products[i].SKU, err)
		}
		if count > 0 {
			continue
		}
		if err := m.db.Create(&products[i]).Error; err != nil {
			return fmt.Errorf("failed to seed product %s: %w", products[i].SKU, err)
		}
		m.logger.WithField("sku", products[i].SKU).Info("seeded product")
	}
	return nil
}
