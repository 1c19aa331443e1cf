package cart

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/packfinderz-cart/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the SQL-backed KVStore over the cart_kv_entries table.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get loads the value stored at key.
func (r *Repository) Get(ctx context.Context, key string) (string, bool, error) {
	var entry models.CartKVEntry
	err := r.db.WithContext(ctx).
		Where("storage_key = ?", key).
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

// Set upserts value under key.
func (r *Repository) Set(ctx context.Context, key, value string) error {
	now := time.Now().UTC()
	entry := models.CartKVEntry{Key: key, Value: value, CreatedAt: now, UpdatedAt: now}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "storage_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
}
