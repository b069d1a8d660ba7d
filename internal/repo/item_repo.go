// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Item and
// Category models.
//
// All functions accept a *gorm.DB handle, making them safe for use within
// transactions or connection-scoped operations. They follow the "thin
// repository" approach: no business logic, only CRUD persistence and query
// composition.
//
// Error semantics:
//   - When a row is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/solayof/school-inventory-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for consistency across the service layer.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateCategory inserts a new category row.
func CreateCategory(ctx context.Context, db *gorm.DB, name, description string) (*domain.Category, error) {
	c := &domain.Category{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// GetCategory fetches a category by ID, or ErrNotFound if missing.
func GetCategory(ctx context.Context, db *gorm.DB, id string) (*domain.Category, error) {
	var c domain.Category
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCategories returns all categories ordered by name.
func ListCategories(ctx context.Context, db *gorm.DB) ([]domain.Category, error) {
	var out []domain.Category
	err := db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

// CreateItem inserts a new item row in AVAILABLE state.
func CreateItem(ctx context.Context, db *gorm.DB, name, description, serialNumber, categoryID string) (*domain.Item, error) {
	it := &domain.Item{
		ID:           uuid.NewString(),
		Name:         name,
		Description:  description,
		SerialNumber: serialNumber,
		Status:       domain.StatusAvailable,
		CategoryID:   categoryID,
		CreatedAt:    time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(it).Error; err != nil {
		return nil, err
	}
	return it, nil
}

// GetItem fetches an item by ID, or ErrNotFound if missing.
func GetItem(ctx context.Context, db *gorm.DB, id string) (*domain.Item, error) {
	var it domain.Item
	if err := db.WithContext(ctx).Where("id = ?", id).First(&it).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

// GetItemByName fetches an item by its unique name.
func GetItemByName(ctx context.Context, db *gorm.DB, name string) (*domain.Item, error) {
	var it domain.Item
	if err := db.WithContext(ctx).Where("name = ?", name).First(&it).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

// GetItemBySerial fetches an item by its unique serial number.
func GetItemBySerial(ctx context.Context, db *gorm.DB, serialNumber string) (*domain.Item, error) {
	var it domain.Item
	if err := db.WithContext(ctx).Where("serial_number = ?", serialNumber).First(&it).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

// ListItems returns all items ordered deterministically (name ASC).
func ListItems(ctx context.Context, db *gorm.DB) ([]domain.Item, error) {
	var out []domain.Item
	err := db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

// ListItemsByStatus returns items in the given state, ordered by name.
func ListItemsByStatus(ctx context.Context, db *gorm.DB, status domain.ItemStatus) ([]domain.Item, error) {
	var out []domain.Item
	err := db.WithContext(ctx).
		Where("status = ?", status).
		Order("name ASC").
		Find(&out).Error
	return out, err
}

// SaveItem persists all fields of an existing item row.
func SaveItem(ctx context.Context, db *gorm.DB, it *domain.Item) error {
	return db.WithContext(ctx).Save(it).Error
}

// DeleteItem removes an item row. If no rows are affected it returns
// ErrNotFound.
func DeleteItem(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Item{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
