package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/session-gateway/internal/config"
)

func upstream(t *testing.T, handler http.HandlerFunc) *SessionService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewSessionService(config.UpstreamConfig{AuthBaseURL: server.URL, TimeoutSeconds: 2}, nil)
}

func TestSessionService_LoginStoresUpstreamResult(t *testing.T) {
	t.Parallel()

	svc := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/users/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "dana@example.com", body["email"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"token":   "header.payload.sig",
			"profile": map[string]string{"subject_id": "u1", "name": "Dana", "role": "hotel"},
		})
	})

	result, err := svc.Login(context.Background(), "dana@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "header.payload.sig", result.Token)
	require.NotNil(t, result.Profile)
	assert.Equal(t, "Dana", result.Profile.Name)
}

func TestSessionService_SuperHotelLoginUsesOwnPath(t *testing.T) {
	t.Parallel()

	svc := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/superhotel/login", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{"token": "sh.token.sig"})
	})

	result, err := svc.LoginSuperHotel(context.Background(), "admin@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "sh.token.sig", result.Token)
}

func TestSessionService_RejectedCredentials(t *testing.T) {
	t.Parallel()

	svc := upstream(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := svc.Login(context.Background(), "dana@example.com", "wrong")
	assert.EqualError(t, err, "invalid credentials")
}

func TestSessionService_UpstreamFailure(t *testing.T) {
	t.Parallel()

	svc := upstream(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := svc.Login(context.Background(), "dana@example.com", "pw")
	assert.Error(t, err)
}

func TestSessionService_MissingTokenIsAnError(t *testing.T) {
	t.Parallel()

	svc := upstream(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"profile": map[string]string{"name": "Dana"}})
	})

	_, err := svc.Login(context.Background(), "dana@example.com", "pw")
	assert.EqualError(t, err, "upstream returned no credential")
}
