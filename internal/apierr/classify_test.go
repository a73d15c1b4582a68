package apierr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Run("structured error envelope", func(t *testing.T) {
		body := []byte(`{"success":false,"error":{"code":"VALIDATION","message":"Bad field","details":{"field":"email"}},"timestamp":"2026-01-01T00:00:00Z"}`)
		e := Classify(400, body)
		assert.Equal(t, KindValidation, e.Kind)
		assert.Equal(t, 400, e.Status)
		assert.Equal(t, "VALIDATION", e.Code)
		assert.Equal(t, "Bad field", e.Message)
		require.NotNil(t, e.Details)
		assert.Equal(t, "email", e.Details["field"])
	})

	t.Run("flat detail shape", func(t *testing.T) {
		e := Classify(404, []byte(`{"detail":"Not found"}`))
		assert.Equal(t, KindNotFound, e.Kind)
		assert.Equal(t, "API_ERROR", e.Code)
		assert.Equal(t, "Not found", e.Message)
	})

	t.Run("envelope missing error code falls back to API_ERROR", func(t *testing.T) {
		e := Classify(409, []byte(`{"error":{"message":"already exists"}}`))
		assert.Equal(t, KindConflict, e.Kind)
		assert.Equal(t, "API_ERROR", e.Code)
		assert.Equal(t, "already exists", e.Message)
	})

	t.Run("unparsable body", func(t *testing.T) {
		e := Classify(500, []byte(`<html>Internal Server Error</html>`))
		assert.Equal(t, KindUnknown, e.Kind)
		assert.Equal(t, 500, e.Status)
		assert.Equal(t, "UNKNOWN_ERROR", e.Code)
	})

	t.Run("empty body", func(t *testing.T) {
		e := Classify(502, nil)
		assert.Equal(t, KindUnknown, e.Kind)
		assert.Equal(t, "UNKNOWN_ERROR", e.Code)
	})

	t.Run("empty JSON object", func(t *testing.T) {
		e := Classify(400, []byte(`{}`))
		assert.Equal(t, KindUnknown, e.Kind)
	})
}

func TestKindForStatus(t *testing.T) {
	cases := []struct {
		status int
		want   Kind
	}{
		{0, KindNetwork},
		{400, KindValidation},
		{401, KindAuth},
		{403, KindAuth},
		{404, KindNotFound},
		{409, KindConflict},
		{429, KindRateLimited},
		{500, KindServer},
		{503, KindServer},
		{418, KindUnknown},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("status %d", tc.status), func(t *testing.T) {
			assert.Equal(t, tc.want, KindForStatus(tc.status))
		})
	}
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("dispatch: %w", Auth(""))
	apiErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindAuth, apiErr.Kind)
	assert.True(t, IsAuth(wrapped))

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

func TestNetwork(t *testing.T) {
	e := Network(errors.New("dial tcp: connection refused"))
	assert.Equal(t, KindNetwork, e.Kind)
	assert.Equal(t, 0, e.Status)
	assert.Equal(t, "NETWORK_ERROR", e.Code)
	assert.Contains(t, e.Message, "connection refused")
}
