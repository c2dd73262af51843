// Package mongo wires the account store: connection handling, liveness
// check, and index bootstrap.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskhive/account-service/internal/pkg/config"
)

const (
	connectTimeout  = 10 * time.Second
	defaultDatabase = "account_service"
)

// Connect dials MongoDB from the service configuration, confirms the server
// is reachable, and bootstraps the indexes the account store relies on. The
// unique email index is created here so a fresh deployment enforces the
// sign-up uniqueness contract from its first request.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(databaseName(cfg))
	if err := NewUserRepository(db).EnsureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, err
	}

	return client, db, nil
}

func databaseName(cfg config.MongoConfig) string {
	if cfg.Database == "" {
		return defaultDatabase
	}
	return cfg.Database
}
