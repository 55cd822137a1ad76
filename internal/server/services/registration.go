// Package services contains server-side business logic. This file implements
// RegistrationService, which validates health-profile submissions and stores
// them, one record per email.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/symptoms/internal/common"
	"github.com/dmitrijs2005/symptoms/internal/server/config"
	"github.com/dmitrijs2005/symptoms/internal/server/models"
	"github.com/dmitrijs2005/symptoms/internal/server/repositories/registrations"
	"github.com/dmitrijs2005/symptoms/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/symptoms/internal/server/validation"
)

// RegistrationService provides:
// - Register: validate a submission and insert it unless the email is taken
// - Lookup: fetch a stored registration by email
type RegistrationService struct {
	repomanager repomanager.RepositoryManager
	policy      validation.Policy
	timeout     time.Duration
	now         func() time.Time
}

// NewRegistrationService constructs a RegistrationService from the storage
// manager and server config. It fails on an unknown validation policy.
func NewRegistrationService(m repomanager.RepositoryManager, cfg *config.Config) (*RegistrationService, error) {
	policy, err := validation.ParsePolicy(cfg.ValidationPolicy)
	if err != nil {
		return nil, err
	}
	return &RegistrationService{
		repomanager: m,
		policy:      policy,
		timeout:     cfg.RequestTimeout,
		now:         time.Now,
	}, nil
}

// Register runs the presence check, parses the numeric fields, then, inside
// one storage session, looks the email up and inserts the record when it is
// absent.
//
// Errors: *common.ValidationError (storage untouched), common.ErrConflict,
// *common.ConnectionError (nothing inserted), or a wrapped storage error.
func (s *RegistrationService) Register(ctx context.Context, sub models.Submission) (*models.RegisteredUser, error) {
	if err := validation.Validate(s.policy, sub); err != nil {
		return nil, err
	}

	user, err := validation.Parse(sub)
	if err != nil {
		return nil, err
	}
	user.CreatedAt = s.now().UTC()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err = s.repomanager.WithinSession(ctx, func(ctx context.Context, repo registrations.Repository) error {
		exists, err := repo.ExistsByEmail(ctx, user.Email)
		if err != nil {
			return err
		}
		if exists {
			return common.ErrConflict
		}
		_, err = repo.Create(ctx, user)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrConflict) || errors.Is(err, common.ErrConnection) {
			return nil, err
		}
		return nil, fmt.Errorf("error registering user: %w", err)
	}

	return user, nil
}

// Lookup returns the registration stored for email or common.ErrorNotFound.
func (s *RegistrationService) Lookup(ctx context.Context, email string) (*models.RegisteredUser, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var user *models.RegisteredUser
	err := s.repomanager.WithinSession(ctx, func(ctx context.Context, repo registrations.Repository) error {
		var err error
		user, err = repo.GetByEmail(ctx, email)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrConnection) {
			return nil, err
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	return user, nil
}

func (s *RegistrationService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
