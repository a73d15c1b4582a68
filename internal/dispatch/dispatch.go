// Package dispatch sends authenticated requests to the Taskloop backend.
// It attaches bearer credentials, recovers exactly once from an expired
// access token via a single-flight refresh, and normalizes every failure
// into the canonical apierr shape.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/taskloop/taskloop-go/internal/apierr"
	"github.com/taskloop/taskloop-go/internal/tokenstore"
)

// RefreshPath is the token refresh endpoint, relative to the base URL.
const RefreshPath = "/auth/refresh"

// Dispatcher builds and sends API requests. One instance is shared per
// process; its refresh coordinator is the only writer of the token store.
type Dispatcher struct {
	baseURL   string
	client    HTTPClient
	store     tokenstore.Store
	refresher *Coordinator
	logger    zerolog.Logger
}

// New creates a dispatcher against baseURL. A nil client falls back to
// the default HTTP client.
func New(logger zerolog.Logger, baseURL string, store tokenstore.Store, client HTTPClient) *Dispatcher {
	if client == nil {
		client = NewHTTPClient()
	}
	return &Dispatcher{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    client,
		store:     store,
		refresher: NewCoordinator(store, logger),
		logger:    logger,
	}
}

// BaseURL returns the resolved base URL.
func (d *Dispatcher) BaseURL() string {
	return d.baseURL
}

// Store returns the token store backing this dispatcher.
func (d *Dispatcher) Store() tokenstore.Store {
	return d.store
}

// ForceRefresh runs one coordinated refresh exchange immediately.
func (d *Dispatcher) ForceRefresh(ctx context.Context) (string, error) {
	if d.store.GetRefresh(ctx) == "" {
		return "", apierr.ErrNoRefreshToken
	}
	return d.refresher.Refresh(ctx, d.exchangeRefreshToken)
}

// Dispatch sends the described request and returns the decoded success
// envelope. Every failure is an *apierr.Error; raw transport errors never
// escape. A 401 on an authenticated request triggers at most one refresh
// and one resend; the second response is final.
func (d *Dispatcher) Dispatch(ctx context.Context, desc Descriptor) (*Envelope, error) {
	payload, err := marshalBody(desc.Body)
	if err != nil {
		return nil, &apierr.Error{
			Kind:    apierr.KindUnknown,
			Code:    "UNKNOWN_ERROR",
			Message: fmt.Sprintf("failed to encode request body: %v", err),
		}
	}

	token := ""
	if desc.RequiresAuth {
		token = d.store.GetAccess(ctx)
	}

	status, body, err := d.send(ctx, desc, payload, token)
	if err != nil {
		return nil, apierr.Network(err)
	}

	if status == http.StatusUnauthorized && desc.RequiresAuth {
		return d.refreshAndRetry(ctx, desc, payload)
	}

	return d.interpret(status, body)
}

// refreshAndRetry handles the expired-token path: coordinate one refresh,
// resend the original request once with the token the refresh produced.
func (d *Dispatcher) refreshAndRetry(ctx context.Context, desc Descriptor, payload []byte) (*Envelope, error) {
	if d.store.GetRefresh(ctx) == "" {
		d.logger.Debug().Str("path", desc.Path).Msg("Unauthorized with no refresh token, failing fast")
		return nil, apierr.Auth("authentication required")
	}

	newToken, err := d.refresher.Refresh(ctx, d.exchangeRefreshToken)
	if err != nil {
		return nil, apierr.Auth("")
	}

	d.logger.Debug().Str("path", desc.Path).Msg("Retrying request with refreshed token")
	status, body, err := d.send(ctx, desc, payload, newToken)
	if err != nil {
		return nil, apierr.Network(err)
	}

	// No second refresh: a 401 here classifies like any other failure.
	return d.interpret(status, body)
}

// exchangeRefreshToken swaps the stored refresh token for a new pair.
// It runs inside the coordinator's single flight.
func (d *Dispatcher) exchangeRefreshToken(ctx context.Context) (string, string, error) {
	refreshToken := d.store.GetRefresh(ctx)
	if refreshToken == "" {
		return "", "", apierr.ErrNoRefreshToken
	}

	payload, err := marshalBody(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal refresh request: %w", err)
	}

	desc := Descriptor{Method: http.MethodPost, Path: RefreshPath}
	status, body, err := d.send(ctx, desc, payload, "")
	if err != nil {
		return "", "", fmt.Errorf("refresh request failed: %w", err)
	}
	if status < 200 || status >= 300 {
		return "", "", fmt.Errorf("refresh rejected: %w", apierr.Classify(status, body))
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", "", fmt.Errorf("failed to decode refresh response: %w", err)
	}
	var pair tokenPair
	if err := env.DecodeData(&pair); err != nil {
		return "", "", fmt.Errorf("failed to decode refresh token pair: %w", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return "", "", fmt.Errorf("refresh response missing token pair")
	}
	return pair.AccessToken, pair.RefreshToken, nil
}

// send performs one transport round trip and drains the response body.
func (d *Dispatcher) send(ctx context.Context, desc Descriptor, payload []byte, token string) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, desc.Method, d.baseURL+desc.Path, body)
	if err != nil {
		return 0, nil, err
	}

	for key, values := range desc.Header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", uuid.NewString())
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+bareToken(token))
	}

	d.logger.Debug().
		Str("method", desc.Method).
		Str("path", desc.Path).
		Str("request_id", req.Header.Get("X-Request-ID")).
		Bool("authenticated", token != "").
		Msg("Sending request")

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, raw, nil
}

// interpret turns a final response into an envelope or canonical error.
func (d *Dispatcher) interpret(status int, body []byte) (*Envelope, error) {
	if status < 200 || status >= 300 {
		return nil, apierr.Classify(status, body)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return &Envelope{Success: true}, nil
	}
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, apierr.Classify(status, body)
	}
	return &env, nil
}

func marshalBody(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	if raw, ok := v.([]byte); ok {
		return raw, nil
	}
	return json.Marshal(v)
}

// bareToken strips an accidental "Bearer " prefix so the header is never
// doubled.
func bareToken(token string) string {
	if len(token) >= 7 && strings.EqualFold(token[:7], "Bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
