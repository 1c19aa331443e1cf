package main

import (
	"context"
	"fmt"

	"github.com/angelmondragon/packfinderz-cart/api/controllers"
	"github.com/angelmondragon/packfinderz-cart/internal/cart"
	"github.com/angelmondragon/packfinderz-cart/pkg/config"
	"github.com/angelmondragon/packfinderz-cart/pkg/db"
	"github.com/angelmondragon/packfinderz-cart/pkg/db/models"
	"github.com/angelmondragon/packfinderz-cart/pkg/logger"
	"github.com/angelmondragon/packfinderz-cart/pkg/migrate"
	"github.com/angelmondragon/packfinderz-cart/pkg/redis"
)

// cartStorage is the KV backend selected by CART_STORAGE_DRIVER.
type cartStorage struct {
	kv      cart.KVStore
	backend controllers.Pinger
	close   func() error
}

func openStorage(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*cartStorage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		logg.Warn(ctx, "cart storage is in-memory; carts are lost on restart")
		return &cartStorage{kv: cart.NewMemoryKV(), close: func() error { return nil }}, nil

	case config.StorageDriverRedis:
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap redis: %w", err)
		}
		return &cartStorage{
			kv:      cart.NewRedisKV(client, cfg.Redis.KeyTTL),
			backend: client,
			close:   client.Close,
		}, nil

	case config.StorageDriverPostgres, config.StorageDriverSQLite:
		client, err := db.New(ctx, cfg.Storage, cfg.DB, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap database: %w", err)
		}
		if err := migrate.MaybeRun(ctx, cfg, logg, client); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		if cfg.Storage.Driver == config.StorageDriverSQLite && !client.DB().Migrator().HasTable(&models.CartKVEntry{}) {
			if err := client.DB().AutoMigrate(&models.CartKVEntry{}); err != nil {
				_ = client.Close()
				return nil, fmt.Errorf("auto-migrate sqlite: %w", err)
			}
		}
		return &cartStorage{
			kv:      cart.NewRepository(client.DB()),
			backend: client,
			close:   client.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}
