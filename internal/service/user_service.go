package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/profile-service/internal/domain"
	"github.com/spec-kit/profile-service/internal/events"
	"github.com/spec-kit/profile-service/internal/repository"
	apperrors "github.com/spec-kit/profile-service/pkg/util"
)

// UserService coordinates profile provisioning and maintenance.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// UserDependencies bundles collaborators for the user service.
type UserDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// ProvisionDefaults seeds optional fields when GetOrCreate inserts a row.
type ProvisionDefaults struct {
	TelegramHandle *string
	ReminderDays   int
}

// NewUserService constructs the service.
func NewUserService(deps UserDependencies) *UserService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// GetOrCreate returns the user for clerkID, provisioning the row on first
// access. A concurrent first access can lose the insert race; the conflict
// is retried once as a lookup before surfacing.
func (s *UserService) GetOrCreate(ctx context.Context, clerkID string, defaults ProvisionDefaults) (*domain.User, error) {
	user, err := s.users.GetByClerkID(ctx, clerkID)
	if err == nil {
		s.logger.Debug("user found, returning existing user",
			zap.Int64("user_id", user.ID), zap.String("clerk_id", clerkID))
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	s.logger.Debug("user not found, creating new user", zap.String("clerk_id", clerkID))
	user = &domain.User{
		ClerkID:        clerkID,
		TelegramHandle: defaults.TelegramHandle,
		ReminderDays:   defaults.ReminderDays,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			existing, lookupErr := s.users.GetByClerkID(ctx, clerkID)
			if lookupErr == nil {
				s.logger.Debug("user provisioned by concurrent request",
					zap.Int64("user_id", existing.ID), zap.String("clerk_id", clerkID))
				return existing, nil
			}
			return nil, apperrors.NewConflict("user with this clerk id or telegram handle already exists", nil)
		}
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventUserCreated,
		ClerkID: clerkID,
		Payload: events.UserCreatedPayload{
			UserID:         user.ID,
			TelegramHandle: user.TelegramHandle,
			ReminderDays:   user.ReminderDays,
		},
	})
	return user, nil
}

// Update applies a partial patch to the user owned by clerkID.
func (s *UserService) Update(ctx context.Context, clerkID string, patch domain.UserPatch) (*domain.User, error) {
	user, err := s.users.GetByClerkID(ctx, clerkID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("user not found during update attempt", zap.String("clerk_id", clerkID))
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}

	updated, err := s.users.Update(ctx, user.ID, patch)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return nil, apperrors.NewConflict("user with this telegram handle already exists", nil)
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventUserUpdated,
		ClerkID: clerkID,
		Payload: events.UserUpdatedPayload{
			UserID:          updated.ID,
			TelegramUpdated: patch.TelegramHandle != nil,
			ReminderUpdated: patch.ReminderDays != nil,
		},
	})
	return updated, nil
}

// Delete removes the user owned by clerkID. Local only: the identity
// provider account is untouched.
func (s *UserService) Delete(ctx context.Context, clerkID string) error {
	user, err := s.users.GetByClerkID(ctx, clerkID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("user not found during deletion attempt", zap.String("clerk_id", clerkID))
			return apperrors.NewNotFound("user", nil)
		}
		return err
	}

	if err := s.users.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("user", nil)
		}
		return err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventUserDeleted,
		ClerkID: clerkID,
		Payload: events.UserDeletedPayload{UserID: user.ID},
	})
	return nil
}

func (s *UserService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
