package models

import "time"

// CartKVEntry stores one serialized cart snapshot under its storage key.
type CartKVEntry struct {
	Key       string    `gorm:"column:storage_key;primaryKey;size:255"`
	Value     string    `gorm:"column:value;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (CartKVEntry) TableName() string {
	return "cart_kv_entries"
}
