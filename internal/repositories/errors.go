package repositories

import "errors"

var (
	// ErrNotFound is returned when a tenant-scoped lookup matches no row.
	ErrNotFound = errors.New("record not found")

	// ErrSlugTaken is returned when the tenants slug unique constraint fires.
	ErrSlugTaken = errors.New("slug already taken")

	// ErrDuplicateEmail is returned when the (tenant_id, email) unique
	// constraint fires.
	ErrDuplicateEmail = errors.New("email already registered in tenant")

	// ErrUserLimitReached is returned when a user insert would exceed the
	// tenant's max_users, or the tenant is inactive.
	ErrUserLimitReached = errors.New("tenant user limit reached")

	// ErrTokenNotFound is returned when a refresh token row is absent or
	// already expired. During rotation this is the replay signal.
	ErrTokenNotFound = errors.New("refresh token not found")
)
