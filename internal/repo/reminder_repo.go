// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Reminder
// model and its delivery-state queries.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/solayof/school-inventory-backend/internal/domain"
)

// CreateReminder inserts a new reminder row for an assignment.
func CreateReminder(ctx context.Context, db *gorm.DB, assignmentID, message string, reminderDate time.Time, status domain.ReminderStatus) (*domain.Reminder, error) {
	r := &domain.Reminder{
		ID:           uuid.NewString(),
		ReminderDate: domain.Date(reminderDate),
		Status:       status,
		Message:      message,
		AssignmentID: assignmentID,
		CreatedAt:    time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// GetReminder fetches a reminder by ID, or ErrNotFound if missing.
func GetReminder(ctx context.Context, db *gorm.DB, id string) (*domain.Reminder, error) {
	var r domain.Reminder
	if err := db.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// SaveReminder persists all fields of an existing reminder row.
func SaveReminder(ctx context.Context, db *gorm.DB, r *domain.Reminder) error {
	return db.WithContext(ctx).Save(r).Error
}

// ListRemindersByStatus returns reminders in the given delivery state,
// oldest first so batch flushes drain in creation order.
func ListRemindersByStatus(ctx context.Context, db *gorm.DB, status domain.ReminderStatus) ([]domain.Reminder, error) {
	var out []domain.Reminder
	err := db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// ListRemindersByAssignment returns an assignment's reminders ordered by
// creation time ascending.
func ListRemindersByAssignment(ctx context.Context, db *gorm.DB, assignmentID string) ([]domain.Reminder, error) {
	var out []domain.Reminder
	err := db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// DeleteReminder removes a reminder row. If no rows are affected it returns
// ErrNotFound.
func DeleteReminder(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Reminder{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteRemindersByAssignment removes every reminder owned by an assignment
// in one statement. Used by assignment deletion to reproduce the cascade
// explicitly.
func DeleteRemindersByAssignment(ctx context.Context, db *gorm.DB, assignmentID string) error {
	return db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Delete(&domain.Reminder{}).Error
}
