package repositories

import (
	"context"
	"errors"
	"time"

	"tenantauth/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*models.User, error)
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.User, error)
	CountByTenant(ctx context.Context, tenantID uuid.UUID) (int, error)
	UpdateRole(ctx context.Context, tenantID, id uuid.UUID, role models.Role) error
	RecordFailedLogin(ctx context.Context, tenantID, id uuid.UUID, threshold int, lockFor time.Duration) (int, *time.Time, error)
	ResetFailedLogins(ctx context.Context, tenantID, id uuid.UUID) error
	Deactivate(ctx context.Context, tenantID, id uuid.UUID) error
}

type userRepo struct {
	db DB
}

func NewUserRepo(db DB) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, tenant_id, email, password_hash, first_name, last_name, role, is_active, email_verified, failed_login_attempts, locked_until, created_at, updated_at`

// Create inserts the user inside a transaction that first locks the owning
// tenant row. The lock serializes concurrent registrations against the same
// tenant, so the count check cannot overshoot max_users; the (tenant_id,
// email) unique constraint is the final word on duplicates either way.
func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var maxUsers int
	var isActive bool
	lockQuery := `SELECT max_users, is_active FROM tenants WHERE id = $1 FOR UPDATE`
	err = tx.QueryRow(ctx, lockQuery, user.TenantID).Scan(&maxUsers, &isActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if !isActive {
		return ErrUserLimitReached
	}

	var count int
	countQuery := `SELECT COUNT(*) FROM users WHERE tenant_id = $1`
	if err := tx.QueryRow(ctx, countQuery, user.TenantID).Scan(&count); err != nil {
		return err
	}
	if count >= maxUsers {
		return ErrUserLimitReached
	}

	insertQuery := `
		INSERT INTO users (id, tenant_id, email, password_hash, first_name, last_name, role, is_active, email_verified, failed_login_attempts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, NOW(), NOW())
	`
	_, err = tx.Exec(ctx, insertQuery,
		user.ID, user.TenantID, user.Email, user.PasswordHash,
		user.FirstName, user.LastName, user.Role,
		user.IsActive, user.EmailVerified,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.TenantID, &user.Email, &user.PasswordHash,
		&user.FirstName, &user.LastName, &user.Role,
		&user.IsActive, &user.EmailVerified,
		&user.FailedLoginAttempts, &user.LockedUntil,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE tenant_id = $1 AND id = $2`
	return scanUser(r.db.QueryRow(ctx, query, tenantID, id))
}

func (r *userRepo) GetByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE tenant_id = $1 AND email = $2`
	return scanUser(r.db.QueryRow(ctx, query, tenantID, email))
}

func (r *userRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(
			&user.ID, &user.TenantID, &user.Email, &user.PasswordHash,
			&user.FirstName, &user.LastName, &user.Role,
			&user.IsActive, &user.EmailVerified,
			&user.FailedLoginAttempts, &user.LockedUntil,
			&user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *userRepo) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM users WHERE tenant_id = $1`
	err := r.db.QueryRow(ctx, query, tenantID).Scan(&count)
	return count, err
}

func (r *userRepo) UpdateRole(ctx context.Context, tenantID, id uuid.UUID, role models.Role) error {
	query := `UPDATE users SET role = $3, updated_at = NOW() WHERE tenant_id = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query, tenantID, id, role)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordFailedLogin bumps the failure counter and arms the lock in a single
// statement, so concurrent failed attempts cannot lose updates. Returns the
// new counter value and lock expiry, if any.
func (r *userRepo) RecordFailedLogin(ctx context.Context, tenantID, id uuid.UUID, threshold int, lockFor time.Duration) (int, *time.Time, error) {
	query := `
		UPDATE users
		SET failed_login_attempts = failed_login_attempts + 1,
		    locked_until = CASE
		        WHEN failed_login_attempts + 1 >= $3 THEN NOW() + $4::interval
		        ELSE locked_until
		    END,
		    updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2
		RETURNING failed_login_attempts, locked_until
	`
	var attempts int
	var lockedUntil *time.Time
	err := r.db.QueryRow(ctx, query, tenantID, id, threshold, lockFor.String()).Scan(&attempts, &lockedUntil)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil, ErrNotFound
	}
	if err != nil {
		return 0, nil, err
	}
	return attempts, lockedUntil, nil
}

func (r *userRepo) ResetFailedLogins(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `UPDATE users SET failed_login_attempts = 0, locked_until = NULL, updated_at = NOW() WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return err
}

// Deactivate soft-deletes a user; this subsystem never removes user rows.
func (r *userRepo) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `UPDATE users SET is_active = FALSE, updated_at = NOW() WHERE tenant_id = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
