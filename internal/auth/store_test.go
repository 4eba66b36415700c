package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/session-gateway/internal/domain"
	"github.com/spec-kit/session-gateway/internal/store"
)

// faultyBackend simulates a blocked storage location: reads find nothing,
// writes and deletes fail.
type faultyBackend struct{}

func (faultyBackend) Get(string) (string, bool) { return "", false }
func (faultyBackend) Set(string, string) error  { return errors.New("storage blocked") }
func (faultyBackend) Delete(string) error       { return errors.New("storage blocked") }

func newTestStore() (*CredentialStore, *store.MemoryBackend, *store.MemoryBackend) {
	auto := store.NewMemoryBackend()
	explicit := store.NewMemoryBackend()
	return NewCredentialStore(auto, explicit, nil), auto, explicit
}

func TestCredentialStore_SuperHotelUsesAutoStoreOnly(t *testing.T) {
	t.Parallel()

	cs, auto, explicit := newTestStore()
	cs.Write(domain.IdentitySuperHotel, "token-sh")

	_, ok := auto.Get(KeySuperHotelToken)
	assert.True(t, ok)
	_, ok = explicit.Get(KeySuperHotelToken)
	assert.False(t, ok)

	cred, ok := cs.Read(domain.IdentitySuperHotel)
	require.True(t, ok)
	assert.Equal(t, "token-sh", cred)
}

func TestCredentialStore_RegularPrefersAutoStore(t *testing.T) {
	t.Parallel()

	cs, _, explicit := newTestStore()
	require.NoError(t, explicit.Set(KeyRegularToken, "from-explicit"))
	cs.Write(domain.IdentityRegularUser, "from-auto")

	cred, ok := cs.Read(domain.IdentityRegularUser)
	require.True(t, ok)
	assert.Equal(t, "from-auto", cred)
}

func TestCredentialStore_RegularFallsBackToExplicitStore(t *testing.T) {
	t.Parallel()

	cs, _, explicit := newTestStore()
	require.NoError(t, explicit.Set(KeyRegularToken, "from-explicit"))

	cred, ok := cs.Read(domain.IdentityRegularUser)
	require.True(t, ok)
	assert.Equal(t, "from-explicit", cred)
	assert.True(t, cs.Presence(domain.IdentityRegularUser))
}

func TestCredentialStore_BlockedAutoStoreFallsBackOnWrite(t *testing.T) {
	t.Parallel()

	explicit := store.NewMemoryBackend()
	cs := NewCredentialStore(faultyBackend{}, explicit, nil)

	cs.Write(domain.IdentityRegularUser, "token-r")

	cred, ok := cs.Read(domain.IdentityRegularUser)
	require.True(t, ok)
	assert.Equal(t, "token-r", cred)
}

func TestCredentialStore_ProfileSnapshotCountsAsPresence(t *testing.T) {
	t.Parallel()

	cs, _, _ := newTestStore()
	assert.False(t, cs.Presence(domain.IdentityRegularUser))

	cs.WriteProfile(&domain.ProfileSnapshot{SubjectID: "u1", Name: "Dana"})

	assert.True(t, cs.Presence(domain.IdentityRegularUser))
	_, ok := cs.Read(domain.IdentityRegularUser)
	assert.False(t, ok, "presence evidence is not a readable credential")

	profile := cs.ReadProfile()
	require.NotNil(t, profile)
	assert.Equal(t, "Dana", profile.Name)
}

func TestCredentialStore_MalformedProfileReadsAsAbsent(t *testing.T) {
	t.Parallel()

	cs, _, explicit := newTestStore()
	require.NoError(t, explicit.Set(KeyProfileSnapshot, "{not json"))

	assert.Nil(t, cs.ReadProfile())
	// The raw entry still counts as identity evidence.
	assert.True(t, cs.Presence(domain.IdentityRegularUser))
}

func TestCredentialStore_ClearRemovesEveryTrace(t *testing.T) {
	t.Parallel()

	cs, _, explicit := newTestStore()
	cs.Write(domain.IdentityRegularUser, "token-r")
	require.NoError(t, explicit.Set(KeyRegularToken, "copy"))
	cs.WriteProfile(&domain.ProfileSnapshot{SubjectID: "u1"})

	cs.Clear(domain.IdentityRegularUser)

	assert.False(t, cs.Presence(domain.IdentityRegularUser))
	_, ok := cs.Read(domain.IdentityRegularUser)
	assert.False(t, ok)
	assert.Nil(t, cs.ReadProfile())
}

func TestCredentialStore_BlockedBackendsNeverError(t *testing.T) {
	t.Parallel()

	cs := NewCredentialStore(faultyBackend{}, faultyBackend{}, nil)

	cs.Write(domain.IdentityRegularUser, "token")
	cs.Write(domain.IdentitySuperHotel, "token")
	cs.Clear(domain.IdentityRegularUser)
	cs.Clear(domain.IdentitySuperHotel)

	assert.False(t, cs.Presence(domain.IdentityRegularUser))
	assert.False(t, cs.Presence(domain.IdentitySuperHotel))
}
