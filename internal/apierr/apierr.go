// Package apierr defines the canonical error shape surfaced by the API
// client. Every failure a caller sees is an *Error; raw transport and
// decoding errors never cross the package boundary.
package apierr

import (
	"errors"
	"fmt"
)

// ErrNoRefreshToken indicates no refresh token is stored; the refresh
// endpoint must not be called in that state.
var ErrNoRefreshToken = errors.New("no refresh token available")

// Kind is the coarse error category derived from the response status.
type Kind string

const (
	KindNetwork     Kind = "network"
	KindValidation  Kind = "validation"
	KindAuth        Kind = "auth"
	KindNotFound    Kind = "not_found"
	KindConflict    Kind = "conflict"
	KindRateLimited Kind = "rate_limited"
	KindServer      Kind = "server"
	KindUnknown     Kind = "unknown"
)

// Error is the canonical error exposed to callers of the client.
type Error struct {
	Kind    Kind
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// As unwraps err into an *Error if one is present in the chain.
func As(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsAuth reports whether err is a canonical auth error. Callers use this
// to trigger a logout flow.
func IsAuth(err error) bool {
	apiErr, ok := As(err)
	return ok && apiErr.Kind == KindAuth
}

// Network wraps a transport-level failure that never reached the server.
func Network(err error) *Error {
	msg := "network error, please check your connection"
	if err != nil {
		msg = err.Error()
	}
	return &Error{
		Kind:    KindNetwork,
		Status:  0,
		Code:    "NETWORK_ERROR",
		Message: msg,
	}
}

// Auth builds the canonical expired-session error returned when
// authentication cannot be (re)established.
func Auth(message string) *Error {
	if message == "" {
		message = "session expired, please sign in again"
	}
	return &Error{
		Kind:    KindAuth,
		Status:  401,
		Code:    "SESSION_EXPIRED",
		Message: message,
	}
}

// KindForStatus maps an HTTP status to its error kind. Status 0 means the
// request never reached the server.
func KindForStatus(status int) Kind {
	switch {
	case status == 0:
		return KindNetwork
	case status == 400:
		return KindValidation
	case status == 401 || status == 403:
		return KindAuth
	case status == 404:
		return KindNotFound
	case status == 409:
		return KindConflict
	case status == 429:
		return KindRateLimited
	case status >= 500:
		return KindServer
	default:
		return KindUnknown
	}
}
