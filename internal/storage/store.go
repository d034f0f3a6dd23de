// Package storage provides the key-value slots that hold the last invoice
// number, the vendor profile and the logo.
package storage

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/facturaIA/paytext-invoice-service/internal/db"
	"github.com/facturaIA/paytext-invoice-service/internal/models"
)

// Fixed keys
const (
	KeyLastInvoiceNumber = "invoice.last_number"
	KeyProfile           = "vendor.profile"
	KeyLogo              = "vendor.logo"
)

// ErrNotFound is returned by Get for a key that was never set or was cleared
var ErrNotFound = errors.New("key not found")

// Store is a string key-value store
//
//go:generate mockgen -destination=mocks/mock_store.go -source=store.go Store
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Clear(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close()
}

// Backend names
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendMinIO    = "minio"
)

// New opens the backend selected in config. An empty backend means memory.
func New(ctx context.Context, cfg models.StorageConfig, logger *zap.Logger) (Store, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil

	case BackendPostgres:
		pool, err := db.Connect(ctx, cfg.Postgres.URL, logger)
		if err != nil {
			return nil, err
		}
		store := NewPostgresStore(pool)
		if err := store.Migrate(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return store, nil

	case BackendMinIO:
		return NewMinIOStore(ctx, cfg.MinIO)

	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}
