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

// ConflictDetector answers whether both identity kinds are concurrently
// present. Pure read of store state; no side effects.
type ConflictDetector struct {
	store *CredentialStore
}

// NewConflictDetector builds a detector over the store.
func NewConflictDetector(store *CredentialStore) *ConflictDetector {
	return &ConflictDetector{store: store}
}

// ConflictRecord is a point-in-time presence snapshot for one navigation.
// Never persisted; recomputed fresh on every check.
type ConflictRecord struct {
	HasRegular    bool
	HasSuperHotel bool
	Path          string
}

// Conflict reports whether both kinds are present in the record.
func (r ConflictRecord) Conflict() bool {
	return r.HasRegular && r.HasSuperHotel
}

// Snapshot captures current store presence for the given path.
func (d *ConflictDetector) Snapshot(path string) ConflictRecord {
	return ConflictRecord{
		HasRegular:    d.store.Presence(domain.IdentityRegularUser),
		HasSuperHotel: d.store.Presence(domain.IdentitySuperHotel),
		Path:          path,
	}
}

// HasConflict is true iff both kinds show presence.
func (d *ConflictDetector) HasConflict() bool {
	return d.Snapshot("").Conflict()
}

// ConflictResolver evicts whichever identity kind is inconsistent with the
// path currently being visited: a path under the super-hotel prefix keeps
// SuperHotelAdmin and evicts RegularUser, everything else keeps RegularUser.
// Safe to run on every navigation; with no conflict it is a no-op.
type ConflictResolver struct {
	detector         *ConflictDetector
	store            *CredentialStore
	superHotelPrefix string
	deviceID         string
	dispatcher       events.Dispatcher
	logger           *zap.Logger
}

// NewConflictResolver builds a resolver for one device's store. dispatcher
// may be nil, in which case evictions are log-only.
func NewConflictResolver(store *CredentialStore, superHotelPrefix, deviceID string, dispatcher events.Dispatcher, logger *zap.Logger) *ConflictResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConflictResolver{
		detector:         NewConflictDetector(store),
		store:            store,
		superHotelPrefix: superHotelPrefix,
		deviceID:         deviceID,
		dispatcher:       dispatcher,
		logger:           logger,
	}
}

// Detector exposes the underlying detector.
func (r *ConflictResolver) Detector() *ConflictDetector {
	return r.detector
}

// Resolve runs conflict resolution for the given navigation path and
// reports whether an eviction occurred. Calling it again with unchanged
// store state is a no-op.
func (r *ConflictResolver) Resolve(ctx context.Context, currentPath string) bool {
	record := r.detector.Snapshot(currentPath)
	if !record.Conflict() {
		return false
	}

	if r.dispatcher != nil {
		_ = r.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventConflictDetected,
			DeviceID:  r.deviceID,
			Path:      currentPath,
			Timestamp: time.Now(),
			Payload:   events.ConflictDetectedPayload{Path: currentPath},
		})
	}

	evicted := domain.IdentitySuperHotel
	if strings.HasPrefix(currentPath, r.superHotelPrefix) {
		evicted = domain.IdentityRegularUser
	}
	r.store.Clear(evicted)

	r.logger.Info("identity conflict resolved",
		zap.String("path", currentPath),
		zap.String("evicted", string(evicted)))
	r.publish(ctx, currentPath, evicted)
	return true
}

func (r *ConflictResolver) publish(ctx context.Context, path string, evicted domain.IdentityKind) {
	if r.dispatcher == nil {
		return
	}
	_ = r.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventIdentityEvicted,
		DeviceID:  r.deviceID,
		Path:      path,
		Timestamp: time.Now(),
		Payload:   events.IdentityEvictedPayload{Kind: evicted, Path: path},
	})
}
