package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tenantauth/internal/models"
	"tenantauth/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	// bcryptCost is tuned for roughly 100ms per hash on current hardware.
	bcryptCost = 12

	// maxFailedLogins failures in a row arm the lockout window.
	maxFailedLogins = 5

	// lockoutWindow is how long a locked account rejects all logins.
	lockoutWindow = 15 * time.Minute
)

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type UserService interface {
	Register(ctx context.Context, tenantID uuid.UUID, req *RegisterRequest) (*models.User, error)
	Authenticate(ctx context.Context, tenantID uuid.UUID, email, password, ip string) (*models.User, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.User, error)
	UpdateRole(ctx context.Context, tenantID, id uuid.UUID, role models.Role) error
}

type userService struct {
	userRepo repositories.UserRepository
	auditSvc AuditLogsService
	logger   *zap.Logger
}

func NewUserService(userRepo repositories.UserRepository, auditSvc AuditLogsService, logger *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		auditSvc: auditSvc,
		logger:   logger,
	}
}

// Register creates a user under the tenant with the default "user" role.
// The repository enforces the per-tenant user limit and the (tenant, email)
// uniqueness; both come back as typed errors for the handler to map.
func (s *userService) Register(ctx context.Context, tenantID uuid.UUID, req *RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         models.RoleUser,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate runs the login decision in the required order: lockout check
// before the password comparison, so a locked account never leaks whether
// the supplied password was correct.
func (s *userService) Authenticate(ctx context.Context, tenantID uuid.UUID, email, password, ip string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, tenantID, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.auditSvc.LogSecurityEvent(ctx, tenantID, nil, models.AuditLoginFailed, ip, models.JSONB{
				"reason": "unknown_email",
			})
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	now := time.Now()
	if user.IsLocked(now) {
		s.auditSvc.LogSecurityEvent(ctx, tenantID, &user.ID, models.AuditAccountLocked, ip, models.JSONB{
			"locked_until": user.LockedUntil.Format(time.RFC3339),
		})
		return nil, ErrAccountLocked
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		attempts, lockedUntil, recErr := s.userRepo.RecordFailedLogin(ctx, tenantID, user.ID, maxFailedLogins, lockoutWindow)
		if recErr != nil {
			s.logger.Error("recording failed login", zap.Error(recErr), zap.String("user_id", user.ID.String()))
		}
		detail := models.JSONB{"attempts": attempts}
		event := models.AuditLoginFailed
		if lockedUntil != nil && lockedUntil.After(now) {
			event = models.AuditAccountLocked
			detail["locked_until"] = lockedUntil.Format(time.RFC3339)
		}
		s.auditSvc.LogSecurityEvent(ctx, tenantID, &user.ID, event, ip, detail)
		return nil, ErrInvalidCredentials
	}

	if user.FailedLoginAttempts > 0 || user.LockedUntil != nil {
		if err := s.userRepo.ResetFailedLogins(ctx, tenantID, user.ID); err != nil {
			s.logger.Error("resetting failed logins", zap.Error(err), zap.String("user_id", user.ID.String()))
		}
	}

	return user, nil
}

func (s *userService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, tenantID, id)
}

func (s *userService) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.User, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.userRepo.List(ctx, tenantID, limit, offset)
}

func (s *userService) UpdateRole(ctx context.Context, tenantID, id uuid.UUID, role models.Role) error {
	if !role.IsValid() {
		return ErrInvalidRole
	}
	return s.userRepo.UpdateRole(ctx, tenantID, id, role)
}
