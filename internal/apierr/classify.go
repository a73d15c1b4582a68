package apierr

import "encoding/json"

// envelopeError matches the primary backend error envelope:
// {"success":false,"error":{"code":...,"message":...,"details":{...}}}
type envelopeError struct {
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

// detailError matches the secondary backend's flat shape: {"detail":"..."}
type detailError struct {
	Detail string `json:"detail"`
}

// Classify normalizes an error response body into a canonical *Error.
// Recognized shapes are tried in order; anything else lands in the
// unknown fallback. Classify never fails on malformed input.
func Classify(status int, body []byte) *Error {
	var env envelopeError
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil && (env.Error.Code != "" || env.Error.Message != "") {
		e := &Error{
			Kind:    KindForStatus(status),
			Status:  status,
			Code:    env.Error.Code,
			Message: env.Error.Message,
			Details: env.Error.Details,
		}
		if e.Code == "" {
			e.Code = "API_ERROR"
		}
		return e
	}

	var flat detailError
	if err := json.Unmarshal(body, &flat); err == nil && flat.Detail != "" {
		return &Error{
			Kind:    KindForStatus(status),
			Status:  status,
			Code:    "API_ERROR",
			Message: flat.Detail,
		}
	}

	return &Error{
		Kind:    KindUnknown,
		Status:  status,
		Code:    "UNKNOWN_ERROR",
		Message: "an unexpected error occurred",
	}
}
