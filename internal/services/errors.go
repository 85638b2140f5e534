package services

import "errors"

var (
	// ErrValidation wraps malformed-input failures; handlers map it to 400.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCredentials covers every login failure the client is allowed
	// to see: unknown email, wrong password, deactivated account. The message
	// never says which.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountLocked means the account is inside its lockout window.
	ErrAccountLocked = errors.New("account locked")

	// ErrInvalidToken covers missing, malformed, expired, revoked and
	// replayed tokens.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrTenantMismatch means a token's embedded tenant differs from the
	// tenant resolved from the request. Always a 403, never a 401.
	ErrTenantMismatch = errors.New("tenant mismatch")

	// ErrInvalidSlug means the slug fails the format or length rule.
	ErrInvalidSlug = errors.New("slug must be 3-50 lowercase letters, numbers or hyphens")

	// ErrInvalidRole means the role is outside {admin, user, viewer}.
	ErrInvalidRole = errors.New("invalid role")

	// ErrInvalidPlan means the plan is outside the known plan set.
	ErrInvalidPlan = errors.New("invalid plan")

	// ErrTenantInactive means the tenant resolved but is deactivated.
	ErrTenantInactive = errors.New("tenant is not active")
)
