package auth

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spec-kit/session-gateway/internal/domain"
)

// Storage keys shared by every backend. The auto-store backend uses them as
// cookie names, the explicit-store backend as keys inside its per-device
// namespace.
const (
	KeyRegularToken    = "bp_token"
	KeySuperHotelToken = "bp_superhotel_token"
	KeyProfileSnapshot = "bp_profile"
)

// Backend is one physical credential storage location. Implementations are
// synchronous; Get reports absence instead of failing, and write errors are
// for diagnostics only — callers of CredentialStore never see them.
type Backend interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// CredentialStore places credentials across the two storage locations
// according to identity kind: SuperHotelAdmin lives in the auto-store only,
// RegularUser prefers the auto-store and falls back to the explicit-store.
// No operation returns an error; a location that cannot be read counts as
// absent.
type CredentialStore struct {
	auto     Backend
	explicit Backend
	logger   *zap.Logger
}

// NewCredentialStore builds a store over the two backends.
func NewCredentialStore(auto, explicit Backend, logger *zap.Logger) *CredentialStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CredentialStore{auto: auto, explicit: explicit, logger: logger}
}

// Write persists a credential for the given identity kind.
func (s *CredentialStore) Write(kind domain.IdentityKind, credential string) {
	switch kind {
	case domain.IdentitySuperHotel:
		if err := s.auto.Set(KeySuperHotelToken, credential); err != nil {
			s.logger.Warn("auto-store write failed", zap.String("kind", string(kind)), zap.Error(err))
		}
	case domain.IdentityRegularUser:
		if err := s.auto.Set(KeyRegularToken, credential); err != nil {
			s.logger.Warn("auto-store write failed, using explicit store", zap.Error(err))
			if err := s.explicit.Set(KeyRegularToken, credential); err != nil {
				s.logger.Warn("explicit-store write failed", zap.Error(err))
			}
		}
	}
}

// Read returns the stored credential for the kind, or ok=false when no
// location holds a readable value.
func (s *CredentialStore) Read(kind domain.IdentityKind) (string, bool) {
	switch kind {
	case domain.IdentitySuperHotel:
		return nonEmpty(s.auto.Get(KeySuperHotelToken))
	case domain.IdentityRegularUser:
		if cred, ok := nonEmpty(s.auto.Get(KeyRegularToken)); ok {
			return cred, true
		}
		return nonEmpty(s.explicit.Get(KeyRegularToken))
	}
	return "", false
}

// Clear removes every stored trace of the kind. For regular users that
// includes the explicit-store copy and the profile snapshot, so Presence
// flips to false afterwards no matter which location held the identity.
func (s *CredentialStore) Clear(kind domain.IdentityKind) {
	switch kind {
	case domain.IdentitySuperHotel:
		s.tryDelete(s.auto, KeySuperHotelToken)
	case domain.IdentityRegularUser:
		s.tryDelete(s.auto, KeyRegularToken)
		s.tryDelete(s.explicit, KeyRegularToken)
		s.tryDelete(s.explicit, KeyProfileSnapshot)
	}
}

// Presence reports whether any location holds evidence of the kind. A
// non-empty profile snapshot in the explicit-store counts for regular
// users even when the token itself is gone.
func (s *CredentialStore) Presence(kind domain.IdentityKind) bool {
	switch kind {
	case domain.IdentitySuperHotel:
		_, ok := nonEmpty(s.auto.Get(KeySuperHotelToken))
		return ok
	case domain.IdentityRegularUser:
		if _, ok := nonEmpty(s.auto.Get(KeyRegularToken)); ok {
			return true
		}
		if _, ok := nonEmpty(s.explicit.Get(KeyRegularToken)); ok {
			return true
		}
		_, ok := nonEmpty(s.explicit.Get(KeyProfileSnapshot))
		return ok
	}
	return false
}

// WriteProfile stores the optional display snapshot in the explicit-store.
func (s *CredentialStore) WriteProfile(profile *domain.ProfileSnapshot) {
	if profile == nil {
		return
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		s.logger.Warn("profile snapshot encode failed", zap.Error(err))
		return
	}
	if err := s.explicit.Set(KeyProfileSnapshot, string(raw)); err != nil {
		s.logger.Warn("profile snapshot write failed", zap.Error(err))
	}
}

// ReadProfile returns the cached snapshot, or nil when absent or unreadable.
func (s *CredentialStore) ReadProfile() *domain.ProfileSnapshot {
	raw, ok := nonEmpty(s.explicit.Get(KeyProfileSnapshot))
	if !ok {
		return nil
	}
	var profile domain.ProfileSnapshot
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil
	}
	return &profile
}

func (s *CredentialStore) tryDelete(backend Backend, key string) {
	if err := backend.Delete(key); err != nil {
		s.logger.Warn("credential delete failed", zap.String("key", key), zap.Error(err))
	}
}

func nonEmpty(value string, ok bool) (string, bool) {
	if !ok || value == "" {
		return "", false
	}
	return value, true
}
