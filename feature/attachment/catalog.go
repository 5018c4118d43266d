package attachment

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Source describes where stored bytes came from.
type Source string

const (
	SourceUpload Source = "upload"
	SourceURL    Source = "url"
	SourceStream Source = "stream"
)

// Record is one row of the attachment catalog.
type Record struct {
	Key       string    `gorm:"column:storage_key;primaryKey;size:768" json:"key"`
	Source    Source    `gorm:"column:source;size:16" json:"source"`
	Origin    string    `gorm:"column:origin;size:2048" json:"origin,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides the table name.
func (Record) TableName() string {
	return "attachments"
}

// Catalog keeps track of stored keys in the database.
// It is bookkeeping only; the storage backend stays the source of truth.
type Catalog struct {
	db *gorm.DB
}

// NewCatalog wraps db. It returns nil when db is nil so callers can skip cataloging.
func NewCatalog(db *gorm.DB) *Catalog {
	if db == nil {
		return nil
	}
	return &Catalog{db: db}
}

// Migrate creates or updates the catalog table.
func (c *Catalog) Migrate() error {
	return c.db.AutoMigrate(&Record{})
}

// Record upserts the entry for key.
func (c *Catalog) Record(ctx context.Context, key string, source Source, origin string) error {
	rec := Record{Key: key, Source: source, Origin: origin}
	return c.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rec).Error
}

// Forget removes the entry for key. Missing entries are ignored.
func (c *Catalog) Forget(ctx context.Context, key string) error {
	return c.db.WithContext(ctx).Where("storage_key = ?", key).Delete(&Record{}).Error
}

// Lookup returns the entry for key, or nil when the key was never cataloged.
func (c *Catalog) Lookup(ctx context.Context, key string) (*Record, error) {
	var rec Record
	err := c.db.WithContext(ctx).Where("storage_key = ?", key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
