package domain

import "strings"

// IdentityKind differentiates the two principal types the gateway stores.
type IdentityKind string

const (
	IdentityRegularUser IdentityKind = "REGULAR_USER"
	IdentitySuperHotel  IdentityKind = "SUPER_HOTEL_ADMIN"
)

// Role enumerates regular-user platform roles.
type Role string

const (
	RoleGuest      Role = "guest"
	RoleHotel      Role = "hotel"
	RoleProvider   Role = "provider"
	RoleSuperadmin Role = "superadmin"
)

// ParseRole normalizes a raw role string into a Role. The contract is
// trimmed, case-sensitive exact matching: surrounding whitespace is
// stripped once here, and every comparison downstream is an exact enum
// comparison. Unknown or empty input yields ok=false.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.TrimSpace(raw)) {
	case RoleGuest:
		return RoleGuest, true
	case RoleHotel:
		return RoleHotel, true
	case RoleProvider:
		return RoleProvider, true
	case RoleSuperadmin:
		return RoleSuperadmin, true
	default:
		return "", false
	}
}

// Identity is an authenticated principal as the gateway sees it: a kind,
// the opaque bearer credential, and for regular users the role carried in
// the credential's claims.
type Identity struct {
	Kind       IdentityKind
	Credential string
	Role       *Role
}
