package services

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"tenantauth/internal/caching"
	"tenantauth/internal/models"
	"tenantauth/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

const (
	slugMinLen = 3
	slugMaxLen = 50

	defaultPrimaryColor   = "#007bff"
	defaultSecondaryColor = "#6c757d"

	tenantCacheTTL = 5 * time.Minute
)

type CreateTenantRequest struct {
	Name string            `json:"name"`
	Slug string            `json:"slug"`
	Plan models.TenantPlan `json:"plan"`
}

type TenantService interface {
	Create(ctx context.Context, req *CreateTenantRequest) (*models.Tenant, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*models.Tenant, error)
	CanAcceptNewUser(ctx context.Context, tenantID uuid.UUID) (bool, error)
	UpdateBranding(ctx context.Context, id uuid.UUID, update *repositories.BrandingUpdate) (*models.Tenant, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type tenantService struct {
	tenantRepo repositories.TenantRepository
	userRepo   repositories.UserRepository
	cacheSvc   caching.CacheService
	logger     *zap.Logger
}

func NewTenantService(tenantRepo repositories.TenantRepository, userRepo repositories.UserRepository, cacheSvc caching.CacheService, logger *zap.Logger) TenantService {
	return &tenantService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		cacheSvc:   cacheSvc,
		logger:     logger,
	}
}

// Create provisions a tenant. The slug is validated here, but uniqueness is
// the database's call: the unique constraint surfaces as ErrSlugTaken, so a
// lost pre-check race can't create duplicates.
func (s *tenantService) Create(ctx context.Context, req *CreateTenantRequest) (*models.Tenant, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidSlug)
	}
	if len(req.Slug) < slugMinLen || len(req.Slug) > slugMaxLen || !slugPattern.MatchString(req.Slug) {
		return nil, ErrInvalidSlug
	}

	plan := req.Plan
	if plan == "" {
		plan = models.PlanFree
	}
	if !plan.IsValid() {
		return nil, ErrInvalidPlan
	}

	tenant := &models.Tenant{
		ID:             uuid.New(),
		Name:           req.Name,
		Slug:           req.Slug,
		PrimaryColor:   defaultPrimaryColor,
		SecondaryColor: defaultSecondaryColor,
		Plan:           plan,
		MaxUsers:       plan.MaxUsers(),
		IsActive:       true,
	}

	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

func (s *tenantService) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	return s.tenantRepo.GetByID(ctx, id)
}

// GetBySlug consults the cache first. Cache failures are logged and ignored;
// the database remains the source of truth.
func (s *tenantService) GetBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	if cached, err := s.cacheSvc.GetTenantBySlug(ctx, slug); err != nil {
		s.logger.Warn("tenant cache read failed", zap.Error(err), zap.String("slug", slug))
	} else if cached != nil {
		return cached, nil
	}

	tenant, err := s.tenantRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if err := s.cacheSvc.SetTenantBySlug(ctx, tenant, tenantCacheTTL); err != nil {
		s.logger.Warn("tenant cache write failed", zap.Error(err), zap.String("slug", slug))
	}
	return tenant, nil
}

// CanAcceptNewUser is advisory: it gives registration a friendly early
// answer, while the transactional insert in the user repository is what
// actually enforces the limit under concurrency.
func (s *tenantService) CanAcceptNewUser(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return false, err
	}
	if !tenant.IsActive {
		return false, nil
	}
	count, err := s.userRepo.CountByTenant(ctx, tenantID)
	if err != nil {
		return false, err
	}
	return count < tenant.MaxUsers, nil
}

func (s *tenantService) UpdateBranding(ctx context.Context, id uuid.UUID, update *repositories.BrandingUpdate) (*models.Tenant, error) {
	if err := s.tenantRepo.UpdateBranding(ctx, id, update); err != nil {
		return nil, err
	}
	tenant, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, tenant.Slug)
	return tenant, nil
}

func (s *tenantService) Deactivate(ctx context.Context, id uuid.UUID) error {
	tenant, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.tenantRepo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, tenant.Slug)
	return nil
}

func (s *tenantService) invalidate(ctx context.Context, slug string) {
	if err := s.cacheSvc.DeleteTenantSlug(ctx, slug); err != nil {
		s.logger.Warn("tenant cache invalidation failed", zap.Error(err), zap.String("slug", slug))
	}
}
