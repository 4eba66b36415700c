package auth

import (
	"github.com/spec-kit/session-gateway/internal/domain"
)

// RoleResolver derives the effective role of the current session through an
// ordered fallback chain: application session state first, then the
// regular-user credential's claims, then the super-hotel marker when the
// context is super-hotel scoped. Every step failure means "try the next
// step"; exhausting the chain means unauthenticated, never an error.
type RoleResolver struct {
	session domain.SessionAccessor
	store   *CredentialStore
}

// NewRoleResolver builds a resolver over the session accessor and store.
// A nil accessor skips the first fallback step.
func NewRoleResolver(session domain.SessionAccessor, store *CredentialStore) *RoleResolver {
	return &RoleResolver{session: session, store: store}
}

// Resolve returns the effective role, or ok=false when no step yields one.
// superHotelScope marks whether the current navigation context belongs to
// the super-hotel area; only then does the SuperHotelAdmin marker resolve.
func (r *RoleResolver) Resolve(superHotelScope bool) (domain.Role, bool) {
	if r.session != nil {
		if role, ok := domain.ParseRole(r.session.State().Role); ok {
			return role, true
		}
	}

	if cred, ok := r.store.Read(domain.IdentityRegularUser); ok {
		if claims, err := DecodeClaims(cred); err == nil {
			if role, ok := RoleFromClaims(claims); ok {
				return role, true
			}
		}
	}

	if superHotelScope {
		if cred, ok := r.store.Read(domain.IdentitySuperHotel); ok {
			if _, err := DecodeClaims(cred); err == nil {
				return domain.RoleSuperadmin, true
			}
		}
	}

	return "", false
}

// Authenticated reports whether a resolvable identity backs the session:
// authenticated application session state, or a stored credential that
// actually decodes. Opaque bytes in the store do not count, so their
// holder is sent through login rather than forbidden. RouteGuard uses
// this to pick between the two redirects.
func (r *RoleResolver) Authenticated() bool {
	if r.session != nil && r.session.State().IsAuthenticated {
		return true
	}
	if cred, ok := r.store.Read(domain.IdentityRegularUser); ok {
		if _, err := DecodeClaims(cred); err == nil {
			return true
		}
	}
	if cred, ok := r.store.Read(domain.IdentitySuperHotel); ok {
		if _, err := DecodeClaims(cred); err == nil {
			return true
		}
	}
	return false
}
