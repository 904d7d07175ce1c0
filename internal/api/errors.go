package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when the backend rejects the bearer token.
// By the time a caller sees it, the stored credential is already purged and
// session.expired has been published; the caller only needs to route the
// user back to login.
var ErrUnauthorized = errors.New("authentication required")

// ErrSubscriptionRequired is returned when the backend refuses an offer
// operation because the account has no active subscription.
var ErrSubscriptionRequired = errors.New("active subscription required")

// Error carries the HTTP status and the server-provided error text for a
// failed request. Transport failures are not Errors; they surface as wrapped
// net errors and are retry-able.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.Status)
	}
	return e.Message
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Error string `json:"error"`
}
