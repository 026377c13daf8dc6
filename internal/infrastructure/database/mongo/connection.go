// internal/infrastructure/database/mongo/connection.go
package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/your-org/storefront-backend/internal/config"
)

// DB wraps the Mongo client and the application database
type DB struct {
	client   *mongo.Client
	database *mongo.Database
}

// NewConnection connects to Mongo and verifies the connection
func NewConnection(ctx context.Context, cfg config.MongoConfig, logger logrus.FieldLogger) (*DB, error) {
	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(cfg.MaxPoolSize)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.WithField("database", cfg.Database).Info("MongoDB connection established")

	return &DB{client: client, database: client.Database(cfg.Database)}, nil
}

// Database returns the application database
func (d *DB) Database() *mongo.Database {
	return d.database
}

// Health pings the primary
func (d *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return d.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client
func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}
