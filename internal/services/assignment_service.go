// Package services – AssignmentService
//
// This file implements the assignment lifecycle: creating an assignment
// (which flips the item to ASSIGNED), changing the due date, recording a
// return (item becomes RETURNED), and deletion (item reverts to AVAILABLE
// and owned reminders are removed). Each mutation runs inside one
// transaction so the item-availability check and the status write cannot be
// split by a concurrent operation on the same item.
//
// Observability: public methods are OpenTelemetry-instrumented; spans carry
// the assignment/item/collector identifiers involved.
package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/solayof/school-inventory-backend/internal/domain"
	"github.com/solayof/school-inventory-backend/internal/repo"
)

// timeNow is the clock seam; tests may pin it for deterministic "today".
var timeNow = func() time.Time { return time.Now().UTC() }

// AssignmentService coordinates items, collectors, and assignments. It is
// the only component that mutates Item.Status and the item's back-reference
// to its active assignment.
type AssignmentService struct {
	DB *gorm.DB
}

// Create assigns an available item to a collector for the given period.
//
// Validation:
//   - collector and item must resolve (ErrCollectorNotFound / ErrItemNotFound);
//   - returnDueDate must not precede assignmentDate (ErrDueBeforeAssignment);
//   - the item must currently be AVAILABLE (ErrItemNotAvailable).
//
// The item row is read under a row-level write lock inside the transaction,
// so two concurrent creations on the same item serialize and the loser sees
// ASSIGNED.
func (s *AssignmentService) Create(ctx context.Context, collectorID, itemID string, assignmentDate, returnDueDate time.Time) (*domain.Assignment, error) {
	tr := otel.Tracer("services/AssignmentService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(
			attribute.String("collector.id", collectorID),
			attribute.String("item.id", itemID),
		),
	)
	defer span.End()

	if domain.Date(returnDueDate).Before(domain.Date(assignmentDate)) {
		return nil, ErrDueBeforeAssignment
	}

	var created *domain.Assignment
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.GetCollector(ctx, tx, collectorID); err != nil {
			if isNotFound(err) {
				return ErrCollectorNotFound
			}
			return err
		}

		it, err := repo.GetItemForUpdate(ctx, tx, itemID)
		if err != nil {
			if isNotFound(err) {
				return ErrItemNotFound
			}
			return err
		}
		if it.Status != domain.StatusAvailable {
			return ErrItemNotAvailable
		}

		a, err := repo.CreateAssignment(ctx, tx, itemID, collectorID, assignmentDate, returnDueDate)
		if err != nil {
			return err
		}

		it.Status = domain.StatusAssigned
		it.AssignmentID = &a.ID
		if err := repo.SaveItem(ctx, tx, it); err != nil {
			return err
		}

		created = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Get fetches an assignment by ID.
func (s *AssignmentService) Get(ctx context.Context, id string) (*domain.Assignment, error) {
	a, err := repo.GetAssignment(ctx, s.DB, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return a, nil
}

// UpdateDueDate replaces the return due date of an active assignment.
// Rejected with ErrAlreadyReturned once an actual return is recorded.
func (s *AssignmentService) UpdateDueDate(ctx context.Context, id string, newReturnDueDate time.Time) (*domain.Assignment, error) {
	tr := otel.Tracer("services/AssignmentService")
	ctx, span := tr.Start(ctx, "UpdateDueDate",
		trace.WithAttributes(attribute.String("assignment.id", id)),
	)
	defer span.End()

	var updated *domain.Assignment
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		a, err := repo.GetAssignment(ctx, tx, id)
		if err != nil {
			if isNotFound(err) {
				return ErrAssignmentNotFound
			}
			return err
		}
		if a.ActualReturnDate != nil {
			return ErrAlreadyReturned
		}
		a.ReturnDueDate = domain.Date(newReturnDueDate)
		if err := repo.SaveAssignment(ctx, tx, a); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Return records the actual return of the assigned item today. The item is
// marked RETURNED and its active-assignment link is cleared. A second return
// on the same assignment fails with ErrAlreadyReturned and changes nothing.
func (s *AssignmentService) Return(ctx context.Context, id string) (*domain.Assignment, error) {
	tr := otel.Tracer("services/AssignmentService")
	ctx, span := tr.Start(ctx, "Return",
		trace.WithAttributes(attribute.String("assignment.id", id)),
	)
	defer span.End()

	var updated *domain.Assignment
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		a, err := repo.GetAssignment(ctx, tx, id)
		if err != nil {
			if isNotFound(err) {
				return ErrAssignmentNotFound
			}
			return err
		}
		if a.ActualReturnDate != nil {
			return ErrAlreadyReturned
		}

		today := domain.Date(timeNow())
		a.ActualReturnDate = &today
		if err := repo.SaveAssignment(ctx, tx, a); err != nil {
			return err
		}

		it, err := repo.GetItemForUpdate(ctx, tx, a.ItemID)
		if err != nil {
			return err
		}
		it.Status = domain.StatusReturned
		it.AssignmentID = nil
		if err := repo.SaveItem(ctx, tx, it); err != nil {
			return err
		}

		updated = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an assignment and unwinds its associations: the item goes
// back to AVAILABLE with no assignment reference, and every owned reminder
// is deleted. The whole unwind is one transaction.
func (s *AssignmentService) Delete(ctx context.Context, id string) error {
	tr := otel.Tracer("services/AssignmentService")
	ctx, span := tr.Start(ctx, "Delete",
		trace.WithAttributes(attribute.String("assignment.id", id)),
	)
	defer span.End()

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		a, err := repo.GetAssignment(ctx, tx, id)
		if err != nil {
			if isNotFound(err) {
				return ErrAssignmentNotFound
			}
			return err
		}

		it, err := repo.GetItemForUpdate(ctx, tx, a.ItemID)
		if err == nil {
			it.Status = domain.StatusAvailable
			it.AssignmentID = nil
			if err := repo.SaveItem(ctx, tx, it); err != nil {
				return err
			}
		} else if !isNotFound(err) {
			return err
		}

		if err := repo.DeleteRemindersByAssignment(ctx, tx, a.ID); err != nil {
			return err
		}
		return repo.DeleteAssignment(ctx, tx, a.ID)
	})
}

// ListOverdue returns all assignments past due as of today, due date
// ascending.
func (s *AssignmentService) ListOverdue(ctx context.Context) ([]domain.Assignment, error) {
	return repo.ListOverdueAssignments(ctx, s.DB, timeNow())
}

// Reminders returns the reminders owned by an assignment, creation time
// ascending.
func (s *AssignmentService) Reminders(ctx context.Context, assignmentID string) ([]domain.Reminder, error) {
	if _, err := repo.GetAssignment(ctx, s.DB, assignmentID); err != nil {
		if isNotFound(err) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return repo.ListRemindersByAssignment(ctx, s.DB, assignmentID)
}
