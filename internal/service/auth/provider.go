package auth

import (
	"context"
	"time"
)

// Session describes a signed-in user.
type Session struct {
	// UserID is the identity provider's stable user identifier (the token's
	// sub claim).
	UserID string

	// Email the magic link was sent to.
	Email string

	// AccessToken is the raw bearer token for the session.
	AccessToken string

	// ExpiresAt is when the access token stops being valid.
	ExpiresAt time.Time
}

// Event describes a session transition delivered to subscribers.
type Event string

const (
	EventSignedIn  Event = "signed_in"
	EventSignedOut Event = "signed_out"
)

// Subscriber receives session transitions. For EventSignedOut the session
// is nil.
type Subscriber func(event Event, session *Session)

// Provider defines the magic-link authentication flow: request a one-time
// code by email, exchange the code for a session, and observe session
// transitions.
type Provider interface {
	// RequestMagicLink asks the identity provider to email a one-time
	// sign-in code to the address.
	RequestMagicLink(ctx context.Context, email string) error

	// VerifyCode exchanges the emailed code for a session and makes it the
	// current session. Returns ErrVerificationFailed when the provider
	// rejects the code.
	VerifyCode(ctx context.Context, email, code string) (*Session, error)

	// SignOut clears the current session.
	SignOut(ctx context.Context) error

	// Current returns the active session, or false when signed out.
	Current() (*Session, bool)

	// Subscribe registers a subscriber for future session transitions.
	Subscribe(subscriber Subscriber)
}
