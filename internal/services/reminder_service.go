// Package services – ReminderService
//
// This file implements the reminder delivery state machine. Reminders are
// created PENDING, a send attempt moves them to SENT (with the rendered body
// and a sent-at timestamp) or FAILED (with the failure note). A delivery
// failure is contained here: it is recorded on the reminder and never
// returned to the caller, so one dead mailbox cannot abort a batch of many.
//
// The two batch entry points, ProcessOverdueReminders and SendDueReminders,
// are what the scheduler drives. Both log and skip per-record failures and
// keep going.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/solayof/school-inventory-backend/internal/domain"
	"github.com/solayof/school-inventory-backend/internal/mail"
	"github.com/solayof/school-inventory-backend/internal/observability"
	"github.com/solayof/school-inventory-backend/internal/repo"
)

// ReminderService owns reminder records and their delivery lifecycle. It is
// the only component that mutates Reminder.Status, SentAt, and Message.
type ReminderService struct {
	DB     *gorm.DB
	Mailer mail.Mailer
}

// Create records a reminder for an assignment. An empty status defaults to
// PENDING (the scheduler path); message may be empty, in which case delivery
// renders the default template.
func (s *ReminderService) Create(ctx context.Context, assignmentID, message string, reminderDate time.Time, status domain.ReminderStatus) (*domain.Reminder, error) {
	if status == "" {
		status = domain.ReminderPending
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	var created *domain.Reminder
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.GetAssignment(ctx, tx, assignmentID); err != nil {
			if isNotFound(err) {
				return ErrAssignmentNotFound
			}
			return err
		}
		r, err := repo.CreateReminder(ctx, tx, assignmentID, message, reminderDate, status)
		if err != nil {
			return err
		}
		created = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Get fetches a reminder by ID.
func (s *ReminderService) Get(ctx context.Context, id string) (*domain.Reminder, error) {
	r, err := repo.GetReminder(ctx, s.DB, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrReminderNotFound
		}
		return nil, err
	}
	return r, nil
}

// Send attempts email delivery for a reminder and records the outcome.
//
// The reminder's assignment, collector, and item must all resolve; a broken
// link yields ErrReminderLinkMissing. The recipient is the collector's
// email, the subject names the item, and the body is the reminder's custom
// message or the default template.
//
// On delivery success the reminder becomes SENT with SentAt set and Message
// replaced by the rendered body. On delivery failure the reminder becomes
// FAILED with the failure note in Message, and the FAILED reminder is
// returned with a nil error: delivery failure is an outcome, not an error.
func (s *ReminderService) Send(ctx context.Context, id string) (*domain.Reminder, error) {
	tr := otel.Tracer("services/ReminderService")
	ctx, span := tr.Start(ctx, "Send",
		trace.WithAttributes(attribute.String("reminder.id", id)),
	)
	defer span.End()

	r, err := repo.GetReminder(ctx, s.DB, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrReminderNotFound
		}
		return nil, err
	}

	a, err := repo.GetAssignment(ctx, s.DB, r.AssignmentID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrReminderLinkMissing
		}
		return nil, err
	}
	col, err := repo.GetCollector(ctx, s.DB, a.CollectorID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrReminderLinkMissing
		}
		return nil, err
	}
	it, err := repo.GetItem(ctx, s.DB, a.ItemID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrReminderLinkMissing
		}
		return nil, err
	}

	subject := "Inventory Return Reminder: " + it.Name
	body := r.Message
	if body == "" {
		body = defaultReminderBody(col, it, a)
	}

	if sendErr := s.Mailer.Send(col.Email, subject, body); sendErr != nil {
		log.Error().
			Err(sendErr).
			Str("reminder_id", r.ID).
			Str("assignment_id", a.ID).
			Str("recipient", col.Email).
			Msg("reminder email delivery failed")

		r.Status = domain.ReminderFailed
		r.Message = "Failed to send reminder email: " + sendErr.Error()
		if saveErr := repo.SaveReminder(ctx, s.DB, r); saveErr != nil {
			log.Error().Err(saveErr).Str("reminder_id", r.ID).Msg("could not persist failed reminder status")
		}
		observability.ObserveDelivery("failed")
		return r, nil
	}

	now := timeNow()
	r.Status = domain.ReminderSent
	r.SentAt = &now
	r.Message = body
	if err := repo.SaveReminder(ctx, s.DB, r); err != nil {
		return nil, err
	}

	log.Info().
		Str("reminder_id", r.ID).
		Str("assignment_id", a.ID).
		Str("recipient", col.Email).
		Msg("reminder email sent")
	observability.ObserveDelivery("sent")
	return r, nil
}

// UpdateStatus sets a reminder's delivery state (e.g. operator dismissal).
func (s *ReminderService) UpdateStatus(ctx context.Context, id string, status domain.ReminderStatus) (*domain.Reminder, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	r, err := repo.GetReminder(ctx, s.DB, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrReminderNotFound
		}
		return nil, err
	}
	r.Status = status
	if err := repo.SaveReminder(ctx, s.DB, r); err != nil {
		return nil, err
	}
	return r, nil
}

// FindByStatus returns reminders in the given delivery state.
func (s *ReminderService) FindByStatus(ctx context.Context, status domain.ReminderStatus) ([]domain.Reminder, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return repo.ListRemindersByStatus(ctx, s.DB, status)
}

// Delete removes a reminder row from storage. This intentionally issues a
// real delete rather than only detaching the record in memory.
func (s *ReminderService) Delete(ctx context.Context, id string) error {
	err := repo.DeleteReminder(ctx, s.DB, id)
	if isNotFound(err) {
		return ErrReminderNotFound
	}
	return err
}

// ProcessOverdueReminders is the daily batch: for every overdue assignment
// it creates one PENDING reminder and immediately attempts delivery. A
// failure on one assignment is logged and the rest of the batch proceeds.
// Only the initial overdue query can fail the batch as a whole.
func (s *ReminderService) ProcessOverdueReminders(ctx context.Context) error {
	tr := otel.Tracer("services/ReminderService")
	ctx, span := tr.Start(ctx, "ProcessOverdueReminders")
	defer span.End()

	today := timeNow()
	overdue, err := repo.ListOverdueAssignments(ctx, s.DB, today)
	if err != nil {
		return fmt.Errorf("list overdue assignments: %w", err)
	}
	observability.SetOverdueBacklog(len(overdue))

	if len(overdue) == 0 {
		log.Info().Msg("no overdue assignments found")
		return nil
	}

	for _, a := range overdue {
		r, err := s.Create(ctx, a.ID, "", today, domain.ReminderPending)
		if err != nil {
			log.Error().Err(err).Str("assignment_id", a.ID).Msg("could not create overdue reminder")
			continue
		}
		if _, err := s.Send(ctx, r.ID); err != nil {
			// Send only errors on broken linkage; delivery failures are
			// already recorded on the reminder itself.
			log.Error().Err(err).Str("assignment_id", a.ID).Str("reminder_id", r.ID).Msg("could not send overdue reminder")
		}
	}

	log.Info().Int("overdue", len(overdue)).Msg("overdue reminder scan completed")
	return nil
}

// SendDueReminders is the hourly batch: it drains all PENDING reminders
// through Send with the same per-record failure tolerance.
func (s *ReminderService) SendDueReminders(ctx context.Context) error {
	tr := otel.Tracer("services/ReminderService")
	ctx, span := tr.Start(ctx, "SendDueReminders")
	defer span.End()

	pending, err := repo.ListRemindersByStatus(ctx, s.DB, domain.ReminderPending)
	if err != nil {
		return fmt.Errorf("list pending reminders: %w", err)
	}

	for _, r := range pending {
		if _, err := s.Send(ctx, r.ID); err != nil {
			log.Error().Err(err).Str("reminder_id", r.ID).Msg("could not send pending reminder")
		}
	}

	if len(pending) > 0 {
		log.Info().Int("pending", len(pending)).Msg("pending reminder flush completed")
	}
	return nil
}

// defaultReminderBody renders the standard reminder text used when a
// reminder carries no custom message.
func defaultReminderBody(col *domain.Collector, it *domain.Item, a *domain.Assignment) string {
	return "Dear " + col.Name + ",\n\n" +
		"This is a reminder that the item '" + it.Name + "' (Serial: " + it.SerialNumber + ") " +
		"assigned to you on " + a.AssignmentDate.Format("2006-01-02") +
		" is due for return by " + a.ReturnDueDate.Format("2006-01-02") + ".\n\n" +
		"Please return it as soon as possible. Thank you."
}
