package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/session-gateway/internal/domain"
	"github.com/spec-kit/session-gateway/internal/events"
)

// ScratchStore is transient per-session storage cleared on logout.
type ScratchStore interface {
	Flush() error
}

// CacheInvalidator drops client-held response caches. Invalidation is
// best effort; logout proceeds regardless of the result.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Navigation is where the user lands after logout.
type Navigation struct {
	Target string
	From   string
}

// SecureLogout tears down every piece of identity state and decides the
// post-logout destination. Each step is attempted even when earlier steps
// fail; the navigation decision always executes, so the caller ends on an
// unauthenticated screen under partial failure too.
type SecureLogout struct {
	store             *CredentialStore
	scratch           ScratchStore
	caches            []CacheInvalidator
	protectedPrefixes []string
	loginPath         string
	homePath          string
	deviceID          string
	dispatcher        events.Dispatcher
	logger            *zap.Logger
}

// LogoutConfig bundles SecureLogout construction parameters.
type LogoutConfig struct {
	Store             *CredentialStore
	Scratch           ScratchStore
	Caches            []CacheInvalidator
	ProtectedPrefixes []string
	LoginPath         string
	HomePath          string
	DeviceID          string
	Dispatcher        events.Dispatcher
	Logger            *zap.Logger
}

// NewSecureLogout builds the teardown sequence.
func NewSecureLogout(cfg LogoutConfig) *SecureLogout {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SecureLogout{
		store:             cfg.Store,
		scratch:           cfg.Scratch,
		caches:            cfg.Caches,
		protectedPrefixes: cfg.ProtectedPrefixes,
		loginPath:         orDefault(cfg.LoginPath, DefaultLoginPath),
		homePath:          orDefault(cfg.HomePath, "/"),
		deviceID:          cfg.DeviceID,
		dispatcher:        cfg.Dispatcher,
		logger:            logger,
	}
}

// Logout clears both identity kinds, flushes scratch storage, invalidates
// response caches, and returns the navigation decision for currentPath.
func (s *SecureLogout) Logout(ctx context.Context, currentPath string) Navigation {
	s.store.Clear(domain.IdentityRegularUser)
	s.store.Clear(domain.IdentitySuperHotel)

	if s.scratch != nil {
		if err := s.scratch.Flush(); err != nil {
			s.logger.Warn("scratch flush failed", zap.Error(err))
		}
	}

	for _, cache := range s.caches {
		if err := cache.Invalidate(ctx); err != nil {
			s.logger.Debug("response cache invalidation failed", zap.Error(err))
		}
	}

	nav := s.destination(currentPath)
	s.publish(ctx, currentPath, nav)
	return nav
}

func (s *SecureLogout) destination(currentPath string) Navigation {
	for _, prefix := range s.protectedPrefixes {
		if strings.HasPrefix(currentPath, prefix) {
			return Navigation{Target: s.loginPath, From: currentPath}
		}
	}
	return Navigation{Target: s.homePath}
}

func (s *SecureLogout) publish(ctx context.Context, path string, nav Navigation) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventSessionEnded,
		DeviceID:  s.deviceID,
		Path:      path,
		Timestamp: time.Now(),
		Payload:   events.SessionEndedPayload{Path: path, Target: nav.Target},
	})
}
