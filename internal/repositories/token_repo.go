package repositories

import (
	"context"
	"errors"

	"tenantauth/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TokenRepository interface {
	Store(ctx context.Context, token *models.RefreshToken) error
	Get(ctx context.Context, token string) (*models.RefreshToken, error)
	Rotate(ctx context.Context, oldToken string, replacement *models.RefreshToken) error
	Delete(ctx context.Context, token string) error
	DeleteAllForUser(ctx context.Context, tenantID, userID uuid.UUID) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type tokenRepo struct {
	db DB
}

func NewTokenRepo(db DB) TokenRepository {
	return &tokenRepo{db: db}
}

func (r *tokenRepo) Store(ctx context.Context, token *models.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (token, user_id, tenant_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.db.Exec(ctx, query, token.Token, token.UserID, token.TenantID, token.ExpiresAt)
	return err
}

// Get returns the stored record only while it is still unexpired. Expired
// rows may linger until the cleanup job runs; they must never validate.
func (r *tokenRepo) Get(ctx context.Context, token string) (*models.RefreshToken, error) {
	record := &models.RefreshToken{}
	query := `
		SELECT token, user_id, tenant_id, expires_at, created_at
		FROM refresh_tokens
		WHERE token = $1 AND expires_at > NOW()
	`
	err := r.db.QueryRow(ctx, query, token).Scan(
		&record.Token, &record.UserID, &record.TenantID, &record.ExpiresAt, &record.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Rotate invalidates oldToken and stores its replacement as one atomic unit.
// The conditional DELETE is the one-time-use guard: if a concurrent refresh
// already consumed the row, zero rows are deleted and the whole rotation
// fails with ErrTokenNotFound instead of minting a second valid pair.
func (r *tokenRepo) Rotate(ctx context.Context, oldToken string, replacement *models.RefreshToken) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	deleteQuery := `DELETE FROM refresh_tokens WHERE token = $1 AND expires_at > NOW()`
	tag, err := tx.Exec(ctx, deleteQuery, oldToken)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTokenNotFound
	}

	insertQuery := `
		INSERT INTO refresh_tokens (token, user_id, tenant_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	if _, err := tx.Exec(ctx, insertQuery, replacement.Token, replacement.UserID, replacement.TenantID, replacement.ExpiresAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Delete is idempotent: revoking an absent token is not an error.
func (r *tokenRepo) Delete(ctx context.Context, token string) error {
	query := `DELETE FROM refresh_tokens WHERE token = $1`
	_, err := r.db.Exec(ctx, query, token)
	return err
}

func (r *tokenRepo) DeleteAllForUser(ctx context.Context, tenantID, userID uuid.UUID) error {
	query := `DELETE FROM refresh_tokens WHERE tenant_id = $1 AND user_id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, userID)
	return err
}

func (r *tokenRepo) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM refresh_tokens WHERE expires_at <= NOW()`
	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
