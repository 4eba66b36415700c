package auth

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/session-gateway/internal/domain"
)

func makeToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

func TestDecodeClaims_Malformed(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"no segments", "not-a-token"},
		{"two segments", "aaa.bbb"},
		{"four segments", "a.b.c.d"},
		{"bad base64", "!!!.@@@.###"},
		{"payload not json", "eyJhbGciOiJIUzI1NiJ9.bm90LWpzb24.sig"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			claims, err := DecodeClaims(tc.input)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestDecodeClaims_ReadsClaimsWithoutVerification(t *testing.T) {
	t.Parallel()

	// The signature segment is garbage on purpose; the gateway never
	// validates it.
	token := makeToken(t, map[string]any{
		"sub":     "user-42",
		"subject": "REGULAR_USER",
		"role":    "hotel",
	})

	claims, err := DecodeClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.SubjectID)
	assert.Equal(t, "REGULAR_USER", claims.Subject)
	assert.Equal(t, "hotel", claims.Role)
}

func TestDecodeClaims_ExpiredLookingTokenStillDecodes(t *testing.T) {
	t.Parallel()

	token := makeToken(t, map[string]any{
		"sub":  "user-42",
		"role": "guest",
		"exp":  1000000000,
	})

	claims, err := DecodeClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "guest", claims.Role)
}

func TestRoleFromClaims(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
		want domain.Role
		ok   bool
	}{
		{"exact", "hotel", domain.RoleHotel, true},
		{"trimmed", "  provider  ", domain.RoleProvider, true},
		{"case sensitive", "Hotel", "", false},
		{"unknown", "manager", "", false},
		{"empty", "", "", false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			role, ok := RoleFromClaims(&Claims{Role: tc.raw})
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, role)
		})
	}
}

func TestRoleFromClaims_NilClaims(t *testing.T) {
	t.Parallel()

	_, ok := RoleFromClaims(nil)
	assert.False(t, ok)
}
