// Package services implements the business logic for items, collectors,
// assignments, and reminders. This file centralizes common service-level
// error values so that they can be consistently returned by service methods
// and checked by callers with errors.Is.
//
// The sentinels fall into three groups mirroring how a request layer would
// translate them:
//   - not-found errors (404-equivalent): the id did not resolve;
//   - invalid-argument errors (400-equivalent): the caller must correct
//     input or state before retrying;
//   - invalid-state errors (5xx-equivalent): a data-integrity problem that
//     needs repair, not a retry.
//
// Mail delivery failure is deliberately absent: it is contained inside
// ReminderService.Send and recorded as a FAILED reminder, never returned.
package services

import "errors"

// Not-found errors.
var (
	// ErrCategoryNotFound indicates the requested category does not exist.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrItemNotFound indicates the requested item does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrCollectorNotFound indicates the requested collector does not exist.
	ErrCollectorNotFound = errors.New("collector not found")

	// ErrAssignmentNotFound indicates the requested assignment does not exist.
	ErrAssignmentNotFound = errors.New("assignment not found")

	// ErrReminderNotFound indicates the requested reminder does not exist.
	ErrReminderNotFound = errors.New("reminder not found")
)

// Invalid-argument errors.
var (
	// ErrItemNotAvailable is returned when an assignment is attempted on an
	// item that is not currently AVAILABLE.
	ErrItemNotAvailable = errors.New("item is not available for assignment")

	// ErrDueBeforeAssignment is returned when an assignment is created with
	// a return due date earlier than the assignment date.
	ErrDueBeforeAssignment = errors.New("return due date cannot be before assignment date")

	// ErrAlreadyReturned is returned when a due-date change or a second
	// return is attempted on an assignment that has already been returned.
	ErrAlreadyReturned = errors.New("assignment has already been returned")

	// ErrItemAssigned is returned when deletion is attempted on an item that
	// is currently assigned.
	ErrItemAssigned = errors.New("item is assigned and cannot be deleted")

	// ErrCollectorHasAssignments is returned when deletion is attempted on a
	// collector that still holds open assignments.
	ErrCollectorHasAssignments = errors.New("collector still has active assignments")

	// ErrInvalidStatus is returned when an item or reminder status value is
	// outside the known set.
	ErrInvalidStatus = errors.New("invalid status value")

	// ErrDuplicateItem is returned when an item name or serial number
	// collides with an existing row.
	ErrDuplicateItem = errors.New("item name or serial number already exists")

	// ErrDuplicateEmail is returned when a collector email collides with an
	// existing row.
	ErrDuplicateEmail = errors.New("collector email already exists")

	// ErrDuplicateCategory is returned when a category name collides with an
	// existing row.
	ErrDuplicateCategory = errors.New("category name already exists")
)

// Invalid-state errors.
var (
	// ErrReminderLinkMissing is returned when a reminder send is attempted
	// but the owning assignment, its collector, or its item cannot be
	// resolved. This signals broken referential data, not bad input.
	ErrReminderLinkMissing = errors.New("associated assignment or collector/item data is missing")
)
