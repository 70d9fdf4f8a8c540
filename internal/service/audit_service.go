package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/profile-service/internal/events"
)

// AuditService writes one structured log line per user lifecycle transition.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventUserCreated, a.handleUserCreated)
	a.dispatcher.Subscribe(events.EventUserUpdated, a.handleUserUpdated)
	a.dispatcher.Subscribe(events.EventUserDeleted, a.handleUserDeleted)
}

func (a *AuditService) handleUserCreated(ctx context.Context, event events.Event) error {
	a.logger.Info("user created",
		zap.String("event_id", event.ID),
		zap.String("clerk_id", event.ClerkID),
		zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleUserUpdated(ctx context.Context, event events.Event) error {
	a.logger.Info("user updated",
		zap.String("event_id", event.ID),
		zap.String("clerk_id", event.ClerkID),
		zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleUserDeleted(ctx context.Context, event events.Event) error {
	a.logger.Info("user deleted",
		zap.String("event_id", event.ID),
		zap.String("clerk_id", event.ClerkID),
		zap.Any("payload", event.Payload))
	return nil
}
