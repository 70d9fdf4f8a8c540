package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserCreated EventType = "user_created"
	EventUserUpdated EventType = "user_updated"
	EventUserDeleted EventType = "user_deleted"
)

// Event represents a domain event emitted by services. ClerkID identifies
// the account the transition belongs to.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ClerkID   string      `json:"clerk_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserCreatedPayload payload.
type UserCreatedPayload struct {
	UserID         int64   `json:"user_id"`
	TelegramHandle *string `json:"telegram_handle,omitempty"`
	ReminderDays   int     `json:"reminder_days"`
}

// UserUpdatedPayload payload. The booleans record which fields the caller
// sent, not their values.
type UserUpdatedPayload struct {
	UserID          int64 `json:"user_id"`
	TelegramUpdated bool  `json:"telegram_updated"`
	ReminderUpdated bool  `json:"reminder_updated"`
}

// UserDeletedPayload payload.
type UserDeletedPayload struct {
	UserID int64 `json:"user_id"`
}
