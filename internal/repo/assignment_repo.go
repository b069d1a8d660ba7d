// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Assignment
// model, including the overdue predicate query used by the reminder batch.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/solayof/school-inventory-backend/internal/domain"
)

// CreateAssignment inserts a new assignment row linking an item to a
// collector for the given period.
func CreateAssignment(ctx context.Context, db *gorm.DB, itemID, collectorID string, assignmentDate, returnDueDate time.Time) (*domain.Assignment, error) {
	a := &domain.Assignment{
		ID:             uuid.NewString(),
		AssignmentDate: domain.Date(assignmentDate),
		ReturnDueDate:  domain.Date(returnDueDate),
		ItemID:         itemID,
		CollectorID:    collectorID,
		CreatedAt:      time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

// GetAssignment fetches an assignment by ID, or ErrNotFound if missing.
func GetAssignment(ctx context.Context, db *gorm.DB, id string) (*domain.Assignment, error) {
	var a domain.Assignment
	if err := db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// GetItemForUpdate fetches an item by ID under a row-level write lock so the
// availability check and the status flip in assignment creation cannot
// interleave with a concurrent creation on the same item.
func GetItemForUpdate(ctx context.Context, db *gorm.DB, id string) (*domain.Item, error) {
	q := db.WithContext(ctx)
	// SQLite serializes writers per database and rejects FOR UPDATE syntax;
	// the row lock only applies on server databases.
	if db.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var it domain.Item
	err := q.Where("id = ?", id).First(&it).Error
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// SaveAssignment persists all fields of an existing assignment row.
func SaveAssignment(ctx context.Context, db *gorm.DB, a *domain.Assignment) error {
	return db.WithContext(ctx).Save(a).Error
}

// DeleteAssignment removes an assignment row. Owned reminders are removed
// separately (see DeleteRemindersByAssignment) inside the same transaction;
// the FK cascade is a backstop, not the mechanism.
func DeleteAssignment(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Assignment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListOverdueAssignments returns assignments due before asOf with no actual
// return recorded, ordered by due date ascending for determinism.
func ListOverdueAssignments(ctx context.Context, db *gorm.DB, asOf time.Time) ([]domain.Assignment, error) {
	var out []domain.Assignment
	err := db.WithContext(ctx).
		Where("return_due_date < ? AND actual_return_date IS NULL", domain.Date(asOf)).
		Order("return_due_date ASC, id ASC").
		Find(&out).Error
	return out, err
}

// ListAssignmentsByCollector returns all assignments held by a collector,
// most recent first.
func ListAssignmentsByCollector(ctx context.Context, db *gorm.DB, collectorID string) ([]domain.Assignment, error) {
	var out []domain.Assignment
	err := db.WithContext(ctx).
		Where("collector_id = ?", collectorID).
		Order("assignment_date DESC, id ASC").
		Find(&out).Error
	return out, err
}
