package domain

import (
	"context"

	"museovini/internal/models"
)

// CredentialStore persists the token pair and the cached user snapshot.
// Writes fully replace the prior value; there are no partial updates.
// Implementations must be safe for concurrent use.
type CredentialStore interface {
	AccessToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) (string, error)
	SetTokens(ctx context.Context, access, refresh string) error
	ClearTokens(ctx context.Context) error

	User(ctx context.Context) (*models.User, error)
	SetUser(ctx context.Context, user *models.User) error
	ClearUser(ctx context.Context) error
}

// Session is the read-only view the route guards need.
type Session interface {
	IsLoading() bool
	IsAuthenticated() bool
	IsAdmin() bool
}

// EventPublisher fans domain events out to in-process subscribers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// Notifier shows transient, fire-and-forget user feedback.
type Notifier interface {
	Notify(kind, message string)
}
