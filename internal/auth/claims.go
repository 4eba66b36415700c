package auth

import (
	"errors"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/session-gateway/internal/domain"
)

// Claims is the decoded middle segment of a bearer token. Only the fields
// the gateway routes on are read; everything else in the payload is ignored.
type Claims struct {
	SubjectID string `json:"sub"`
	Subject   string `json:"subject"`
	Role      string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

var errMalformedToken = errors.New("malformed bearer token")

// claimsParser never validates signatures or registered claims; the server
// stays the sole authority on token legitimacy. The gateway only reads
// claims to drive routing decisions.
var claimsParser = jwt.NewParser(jwt.WithoutClaimsValidation())

// DecodeClaims decodes the claims segment of a three-segment bearer token.
// It is pure: no storage access, no side effects, and an error for any
// input that is not a decodable token. Callers decide whether an error
// means "unauthenticated" or "skip this fallback step".
func DecodeClaims(credential string) (*Claims, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" || strings.Count(credential, ".") != 2 {
		return nil, errMalformedToken
	}

	claims := &Claims{}
	if _, _, err := claimsParser.ParseUnverified(credential, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// RoleFromClaims extracts the claims' role through the normalization
// contract on domain.ParseRole.
func RoleFromClaims(claims *Claims) (domain.Role, bool) {
	if claims == nil {
		return "", false
	}
	return domain.ParseRole(claims.Role)
}
