package auth

import (
	"github.com/spec-kit/session-gateway/internal/domain"
)

// Default redirect destinations used when GuardConfig leaves them empty.
const (
	DefaultLoginPath     = "/login"
	DefaultForbiddenPath = "/forbidden"
)

// GuardAction is the outcome of a guard evaluation.
type GuardAction int

const (
	GuardAuthorized GuardAction = iota
	GuardRedirectLogin
	GuardRedirectForbidden
)

// GuardConfig declares what a protected region requires. An empty
// AllowedRoles set means any authenticated identity passes.
type GuardConfig struct {
	AllowedRoles  []domain.Role
	LoginPath     string
	ForbiddenPath string
}

// GuardInput is the full state the decision depends on. Evaluation is
// pure: same input, same decision, nothing retained between calls.
type GuardInput struct {
	IsAuthenticated bool
	Role            domain.Role
	RoleResolved    bool
	RequestedPath   string
}

// Decision says what to do with the request. From carries the originally
// requested path as return context on login redirects.
type Decision struct {
	Action GuardAction
	Target string
	From   string
}

// Evaluate gates a protected region. Unauthenticated callers go to login
// with the requested path as return context; authenticated callers whose
// role is outside the allowed set go to the forbidden destination;
// everyone else is authorized. Role membership is an exact comparison of
// domain.Role values (normalization happens once, in domain.ParseRole).
func Evaluate(cfg GuardConfig, in GuardInput) Decision {
	if !in.IsAuthenticated {
		return Decision{
			Action: GuardRedirectLogin,
			Target: orDefault(cfg.LoginPath, DefaultLoginPath),
			From:   in.RequestedPath,
		}
	}

	if len(cfg.AllowedRoles) == 0 {
		return Decision{Action: GuardAuthorized}
	}

	if in.RoleResolved {
		for _, allowed := range cfg.AllowedRoles {
			if in.Role == allowed {
				return Decision{Action: GuardAuthorized}
			}
		}
	}

	return Decision{
		Action: GuardRedirectForbidden,
		Target: orDefault(cfg.ForbiddenPath, DefaultForbiddenPath),
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
