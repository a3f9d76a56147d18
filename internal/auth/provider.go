package auth

import (
	"context"
	"time"
)

// Identity is the denormalized copy of the provider's user record.
type Identity struct {
	UID         string     `json:"uid"`
	Email       string     `json:"email"`
	DisplayName string     `json:"displayName"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// Provider is a managed identity service holding the device session.
// Errors should wrap one of the package error kinds where the cause is known.
type Provider interface {
	SignUp(ctx context.Context, email, password, displayName string) (Identity, error)
	SignIn(ctx context.Context, email, password string) (Identity, error)
	SignOut(ctx context.Context) error
	// CurrentUser reads the local session state without network access.
	CurrentUser() *Identity
	// Watch reports the current user immediately and then every sign-in and
	// sign-out. The returned func stops the notifications.
	Watch(fn func(*Identity)) (cancel func())
}
