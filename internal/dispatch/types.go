package dispatch

import (
	"encoding/json"
	"net/http"
)

// Descriptor describes one outbound API request. Descriptors are per-call
// and never reused across calls.
type Descriptor struct {
	Method string
	Path   string
	Header http.Header
	// Body is marshaled to JSON when non-nil.
	Body any
	// RequiresAuth marks endpoints that need a bearer token. Public
	// endpoints (login, register, refresh itself) leave it false and can
	// never trigger the refresh path.
	RequiresAuth bool
}

// Envelope is the success wrapper every Taskloop endpoint responds with.
// Data stays opaque at this layer; typed callers decode it themselves.
type Envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Message   string          `json:"message,omitempty"`
	Timestamp string          `json:"timestamp"`
}

// DecodeData unmarshals the envelope payload into v.
func (e *Envelope) DecodeData(v any) error {
	if len(e.Data) == 0 {
		return nil
	}
	return json.Unmarshal(e.Data, v)
}

// tokenPair is the refresh exchange payload.
type tokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// refreshRequest is the body sent to the refresh endpoint.
type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}
