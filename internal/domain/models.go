// Package domain defines the persistence models for the school inventory:
// categories, items, collectors, assignments, and reminders. These types are
// mapped with GORM and form the core data layer of the application.
package domain

import (
	"time"
)

// ItemStatus is the lifecycle state of an inventory item.
//
// An item starts AVAILABLE, becomes ASSIGNED while a live assignment
// references it, and is marked RETURNED once that assignment is closed.
// RETURNED is descriptive of the last disposition only; releasing the item
// back to AVAILABLE makes it assignable again.
type ItemStatus string

const (
	StatusAvailable ItemStatus = "AVAILABLE"
	StatusAssigned  ItemStatus = "ASSIGNED"
	StatusReturned  ItemStatus = "RETURNED"
)

// Valid reports whether s is one of the three known item states.
func (s ItemStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusAssigned, StatusReturned:
		return true
	}
	return false
}

// ReminderStatus is the delivery state of a reminder record.
type ReminderStatus string

const (
	ReminderPending   ReminderStatus = "PENDING"
	ReminderSent      ReminderStatus = "SENT"
	ReminderFailed    ReminderStatus = "FAILED"
	ReminderDismissed ReminderStatus = "DISMISSED"
)

// Valid reports whether s is one of the four known reminder states.
func (s ReminderStatus) Valid() bool {
	switch s {
	case ReminderPending, ReminderSent, ReminderFailed, ReminderDismissed:
		return true
	}
	return false
}

// Category groups items (e.g. "Laboratory", "Sports"). Plain lookup data;
// items keep a mandatory reference to their category.
type Category struct {
	ID          string    `json:"id"          gorm:"type:char(36);primaryKey"`
	Name        string    `json:"name"        gorm:"type:varchar(255);not null;uniqueIndex"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for Category.
func (Category) TableName() string { return "categories" }

// Collector is a person who borrows inventory items. Email is the unique
// delivery address for overdue reminders.
type Collector struct {
	ID                 string    `json:"id"                  gorm:"type:char(36);primaryKey"`
	Name               string    `json:"name"                gorm:"type:varchar(255);not null"`
	ContactInformation string    `json:"contact_information" gorm:"type:varchar(255)"`
	Email              string    `json:"email"               gorm:"type:varchar(255);not null;uniqueIndex"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TableName returns the database table name for Collector.
func (Collector) TableName() string { return "collectors" }

// Item is a tracked piece of inventory.
//
// Fields:
//   - Name / SerialNumber: unique identifiers for humans and asset tags.
//   - Status: see ItemStatus; Status == ASSIGNED iff AssignmentID is set.
//   - CategoryID: mandatory many-to-one category reference.
//   - AssignmentID: the currently active assignment, nil when none. The
//     assignment service keeps this link and Status consistent on every
//     transition; nothing else writes these two fields.
type Item struct {
	ID           string     `json:"id"            gorm:"type:char(36);primaryKey"`
	Name         string     `json:"name"          gorm:"type:varchar(255);not null;uniqueIndex"`
	Description  string     `json:"description"   gorm:"type:text"`
	SerialNumber string     `json:"serial_number" gorm:"type:varchar(255);not null;uniqueIndex"`
	Status       ItemStatus `json:"status"        gorm:"type:varchar(16);not null;check:status IN ('AVAILABLE','ASSIGNED','RETURNED')"`
	CategoryID   string     `json:"category_id"   gorm:"type:char(36);not null;index"`
	AssignmentID *string    `json:"assignment_id,omitempty" gorm:"type:char(36)"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Category Category `json:"-" gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName returns the database table name for Item.
func (Item) TableName() string { return "items" }

// Assignment links one item to one collector for a bounded period.
//
// Invariants enforced by the service layer:
//   - ReturnDueDate >= AssignmentDate at creation.
//   - ActualReturnDate is nil while the assignment is active and terminal
//     once set; no further due-date changes or re-returns are allowed.
//   - An assignment is overdue when ActualReturnDate is nil and
//     ReturnDueDate is before today.
type Assignment struct {
	ID               string     `json:"id"                 gorm:"type:char(36);primaryKey"`
	AssignmentDate   time.Time  `json:"assignment_date"    gorm:"not null"`
	ReturnDueDate    time.Time  `json:"return_due_date"    gorm:"not null;index"`
	ActualReturnDate *time.Time `json:"actual_return_date,omitempty"`
	ItemID           string     `json:"item_id"            gorm:"type:char(36);not null;index"`
	CollectorID      string     `json:"collector_id"       gorm:"type:char(36);not null;index"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	Item      Item      `json:"-" gorm:"foreignKey:ItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Collector Collector `json:"-" gorm:"foreignKey:CollectorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName returns the database table name for Assignment.
func (Assignment) TableName() string { return "assignments" }

// Overdue reports whether the assignment is past due as of the given day:
// not yet returned and due strictly before asOf (both compared as dates).
func (a Assignment) Overdue(asOf time.Time) bool {
	return a.ActualReturnDate == nil && Date(a.ReturnDueDate).Before(Date(asOf))
}

// Reminder tracks one attempt to alert a collector about an assignment.
//
// Lifecycle: created PENDING, then delivery flips it to SENT (SentAt set,
// Message replaced with the rendered body) or FAILED (Message replaced with
// the failure note). DISMISSED is an operator action. Reminders are
// cascade-deleted with their assignment.
type Reminder struct {
	ID           string         `json:"id"            gorm:"type:char(36);primaryKey"`
	ReminderDate time.Time      `json:"reminder_date" gorm:"not null"`
	Status       ReminderStatus `json:"status"        gorm:"type:varchar(16);not null;index;check:status IN ('PENDING','SENT','FAILED','DISMISSED')"`
	Message      string         `json:"message"       gorm:"type:text"`
	SentAt       *time.Time     `json:"sent_at,omitempty"`
	AssignmentID string         `json:"assignment_id" gorm:"type:char(36);not null;index"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`

	Assignment Assignment `json:"-" gorm:"foreignKey:AssignmentID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Reminder.
func (Reminder) TableName() string { return "reminders" }

// Date truncates t to midnight UTC. Assignment and reminder dates are
// calendar dates; comparisons go through this to stay time-of-day agnostic.
func Date(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
