// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Collector
// model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/solayof/school-inventory-backend/internal/domain"
)

// CreateCollector inserts a new collector row. The email uniqueness
// constraint is enforced by the database; callers map the duplicate-key
// error to a service-level sentinel.
func CreateCollector(ctx context.Context, db *gorm.DB, name, contactInformation, email string) (*domain.Collector, error) {
	c := &domain.Collector{
		ID:                 uuid.NewString(),
		Name:               name,
		ContactInformation: contactInformation,
		Email:              email,
		CreatedAt:          time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// GetCollector fetches a collector by ID, or ErrNotFound if missing.
func GetCollector(ctx context.Context, db *gorm.DB, id string) (*domain.Collector, error) {
	var c domain.Collector
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// GetCollectorByEmail fetches a collector by its unique email address.
func GetCollectorByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.Collector, error) {
	var c domain.Collector
	if err := db.WithContext(ctx).Where("email = ?", email).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCollectors returns all collectors ordered by name.
func ListCollectors(ctx context.Context, db *gorm.DB) ([]domain.Collector, error) {
	var out []domain.Collector
	err := db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

// SaveCollector persists all fields of an existing collector row.
func SaveCollector(ctx context.Context, db *gorm.DB, c *domain.Collector) error {
	return db.WithContext(ctx).Save(c).Error
}

// DeleteCollector removes a collector row. If no rows are affected it
// returns ErrNotFound.
func DeleteCollector(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Collector{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountActiveAssignments returns the number of open (not yet returned)
// assignments held by the collector.
func CountActiveAssignments(ctx context.Context, db *gorm.DB, collectorID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Assignment{}).
		Where("collector_id = ? AND actual_return_date IS NULL", collectorID).
		Count(&total).Error
	return total, err
}
