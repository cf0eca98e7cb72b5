package session

import (
	"errors"

	"github.com/dmitrijs2005/skillshare/internal/client/models"
)

type Status int

const (
	StatusUnauthenticated Status = iota
	StatusAuthenticating
	StatusAuthenticated
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusAuthenticating:
		return "authenticating"
	case StatusAuthenticated:
		return "authenticated"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Session is a snapshot of the current identity. Message is set only in
// StatusError.
type Session struct {
	Status  Status
	User    *models.User
	Message string
}

func (s Session) Authenticated() bool {
	return s.Status == StatusAuthenticated && s.User != nil
}

// Reader is the read-only view of the store handed to consumers.
type Reader interface {
	Current() Session
	Authenticated() bool
}

// User-facing messages.
const (
	MsgBootstrapFailed    = "Failed to authenticate. Please try logging in again."
	MsgInvalidCredentials = "Invalid email or password"
	MsgLoginFailed        = "Login failed"
	MsgRegistrationFailed = "Registration failed"
	MsgLogoutWarning      = "Failed to log out from server. Session cleared locally."
	MsgAuthRequired       = "Please log in to continue"
)

// credentialRejection is the marker the backend puts into a refused login.
const credentialRejection = "Bad credentials"

var (
	// ErrInvalidCredentials matches an AuthError for a rejected identifier
	// or secret.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAuthRequired is returned by operations that need a signed-in user.
	ErrAuthRequired = errors.New("authentication required")
)

// AuthError is a classified login or registration failure. Message is safe
// to show to the user; Err is the underlying gateway error.
type AuthError struct {
	Message string
	Err     error
	reason  error
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() []error {
	var errs []error
	if e.reason != nil {
		errs = append(errs, e.reason)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
