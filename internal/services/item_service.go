// Package services – ItemService and CategoryService
//
// This file implements the item and category use-cases: registration with
// unique name/serial enforcement, lookups, and guarded deletion. The item
// status field itself is owned by the assignment flow (see
// assignment_service.go); nothing here flips an item between AVAILABLE,
// ASSIGNED, and RETURNED.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/solayof/school-inventory-backend/internal/domain"
	"github.com/solayof/school-inventory-backend/internal/repo"
)

// CategoryService manages the category lookup data items reference.
type CategoryService struct {
	DB *gorm.DB
}

// Create inserts a category with a unique name.
func (s *CategoryService) Create(ctx context.Context, name, description string) (*domain.Category, error) {
	c, err := repo.CreateCategory(ctx, s.DB, strings.TrimSpace(name), description)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicateCategory
		}
		return nil, err
	}
	return c, nil
}

// Get fetches a category by ID.
func (s *CategoryService) Get(ctx context.Context, id string) (*domain.Category, error) {
	c, err := repo.GetCategory(ctx, s.DB, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return c, nil
}

// List returns all categories.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	return repo.ListCategories(ctx, s.DB)
}

// ItemService manages inventory item registration and removal.
type ItemService struct {
	DB *gorm.DB
}

// Create registers a new item in AVAILABLE state under an existing category.
// Name and serial number must be unique.
func (s *ItemService) Create(ctx context.Context, name, description, serialNumber, categoryID string) (*domain.Item, error) {
	var created *domain.Item
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.GetCategory(ctx, tx, categoryID); err != nil {
			if isNotFound(err) {
				return ErrCategoryNotFound
			}
			return err
		}
		it, err := repo.CreateItem(ctx, tx, name, description, serialNumber, categoryID)
		if err != nil {
			if isDuplicate(err) {
				return ErrDuplicateItem
			}
			return err
		}
		created = it
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Get fetches an item by ID.
func (s *ItemService) Get(ctx context.Context, id string) (*domain.Item, error) {
	it, err := repo.GetItem(ctx, s.DB, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return it, nil
}

// GetByName fetches an item by its unique name.
func (s *ItemService) GetByName(ctx context.Context, name string) (*domain.Item, error) {
	it, err := repo.GetItemByName(ctx, s.DB, name)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return it, nil
}

// GetBySerial fetches an item by its serial number.
func (s *ItemService) GetBySerial(ctx context.Context, serialNumber string) (*domain.Item, error) {
	it, err := repo.GetItemBySerial(ctx, s.DB, serialNumber)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return it, nil
}

// List returns all items.
func (s *ItemService) List(ctx context.Context) ([]domain.Item, error) {
	return repo.ListItems(ctx, s.DB)
}

// ListByStatus returns items in a given lifecycle state.
func (s *ItemService) ListByStatus(ctx context.Context, status domain.ItemStatus) ([]domain.Item, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return repo.ListItemsByStatus(ctx, s.DB, status)
}

// Delete removes an item. Deletion is rejected while the item is ASSIGNED;
// the active assignment must be deleted or returned first.
func (s *ItemService) Delete(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		it, err := repo.GetItem(ctx, tx, id)
		if err != nil {
			if isNotFound(err) {
				return ErrItemNotFound
			}
			return err
		}
		if it.Status == domain.StatusAssigned {
			return ErrItemAssigned
		}
		return repo.DeleteItem(ctx, tx, id)
	})
}

// isNotFound treats repo-level not found sentinels as "not found" in a
// driver-agnostic way.
func isNotFound(err error) bool {
	if errors.Is(err, repo.ErrNotFound) {
		return true
	}
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// isDuplicate attempts to detect unique-constraint violations across drivers
// that may not map to gorm.ErrDuplicatedKey.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// SQLite typically: "UNIQUE constraint failed"
	// Postgres typically: "duplicate key value violates unique constraint"
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
