// Package services – CollectorService
//
// This file implements the collector (borrower) use-cases: registration with
// unique-email enforcement, lookups, contact updates, and deletion guarded
// against open assignments.
package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/solayof/school-inventory-backend/internal/domain"
	"github.com/solayof/school-inventory-backend/internal/repo"
	"github.com/solayof/school-inventory-backend/internal/sysutil"
)

// CollectorService manages the people items get assigned to.
type CollectorService struct {
	DB *gorm.DB
}

// Create registers a collector. Email is normalized to lowercase and must be
// unique; a collision yields ErrDuplicateEmail.
func (s *CollectorService) Create(ctx context.Context, name, contactInformation, email string) (*domain.Collector, error) {
	email = sysutil.NormalizeEmail(email)
	c, err := repo.CreateCollector(ctx, s.DB, strings.TrimSpace(name), contactInformation, email)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return c, nil
}

// Get fetches a collector by ID.
func (s *CollectorService) Get(ctx context.Context, id string) (*domain.Collector, error) {
	c, err := repo.GetCollector(ctx, s.DB, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCollectorNotFound
		}
		return nil, err
	}
	return c, nil
}

// GetByEmail fetches a collector by email.
func (s *CollectorService) GetByEmail(ctx context.Context, email string) (*domain.Collector, error) {
	c, err := repo.GetCollectorByEmail(ctx, s.DB, sysutil.NormalizeEmail(email))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCollectorNotFound
		}
		return nil, err
	}
	return c, nil
}

// List returns all collectors.
func (s *CollectorService) List(ctx context.Context) ([]domain.Collector, error) {
	return repo.ListCollectors(ctx, s.DB)
}

// Update replaces the mutable contact fields. A blank email keeps the
// current one; a changed email must remain unique.
func (s *CollectorService) Update(ctx context.Context, id, name, contactInformation, email string) (*domain.Collector, error) {
	var updated *domain.Collector
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := repo.GetCollector(ctx, tx, id)
		if err != nil {
			if isNotFound(err) {
				return ErrCollectorNotFound
			}
			return err
		}
		if name = strings.TrimSpace(name); name != "" {
			c.Name = name
		}
		if contactInformation != "" {
			c.ContactInformation = contactInformation
		}
		if email = sysutil.NormalizeEmail(email); email != "" {
			c.Email = email
		}
		if err := repo.SaveCollector(ctx, tx, c); err != nil {
			if isDuplicate(err) {
				return ErrDuplicateEmail
			}
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Assignments returns the collector's assignment history, most recent
// first.
func (s *CollectorService) Assignments(ctx context.Context, id string) ([]domain.Assignment, error) {
	if _, err := repo.GetCollector(ctx, s.DB, id); err != nil {
		if isNotFound(err) {
			return nil, ErrCollectorNotFound
		}
		return nil, err
	}
	return repo.ListAssignmentsByCollector(ctx, s.DB, id)
}

// Delete removes a collector. Rejected while the collector still holds open
// assignments; closed assignment history does not block deletion.
func (s *CollectorService) Delete(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.GetCollector(ctx, tx, id); err != nil {
			if isNotFound(err) {
				return ErrCollectorNotFound
			}
			return err
		}
		open, err := repo.CountActiveAssignments(ctx, tx, id)
		if err != nil {
			return err
		}
		if open > 0 {
			return ErrCollectorHasAssignments
		}
		return repo.DeleteCollector(ctx, tx, id)
	})
}
