package services

import (
	"context"

	"tenantauth/internal/models"
	"tenantauth/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuditLogsService records security-relevant events (tenant mismatches,
// lockouts, failed logins) per tenant. Every event lands in the structured
// log immediately; the database write is best effort and never fails the
// request that triggered it.
type AuditLogsService interface {
	LogSecurityEvent(ctx context.Context, tenantID uuid.UUID, userID *uuid.UUID, event, ip string, detail models.JSONB)
	List(ctx context.Context, tenantID uuid.UUID, filters *models.AuditLogFilters) ([]*models.AuditLog, error)
}

type auditLogsService struct {
	auditRepo repositories.AuditLogsRepository
	logger    *zap.Logger
}

func NewAuditLogsService(auditRepo repositories.AuditLogsRepository, logger *zap.Logger) AuditLogsService {
	return &auditLogsService{auditRepo: auditRepo, logger: logger}
}

func (s *auditLogsService) LogSecurityEvent(ctx context.Context, tenantID uuid.UUID, userID *uuid.UUID, event, ip string, detail models.JSONB) {
	fields := []zap.Field{
		zap.String("event", event),
		zap.String("tenant_id", tenantID.String()),
		zap.String("ip", ip),
		zap.Any("detail", detail),
	}
	if userID != nil {
		fields = append(fields, zap.String("user_id", userID.String()))
	}
	s.logger.Warn("security event", fields...)

	entry := &models.AuditLog{
		ID:        uuid.New(),
		TenantID:  tenantID,
		UserID:    userID,
		Event:     event,
		IPAddress: ip,
		Detail:    detail,
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.logger.Error("persisting audit entry", zap.Error(err), zap.String("event", event))
	}
}

func (s *auditLogsService) List(ctx context.Context, tenantID uuid.UUID, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	if filters == nil {
		filters = &models.AuditLogFilters{}
	}
	if filters.Limit <= 0 || filters.Limit > 1000 {
		filters.Limit = 50
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}
	return s.auditRepo.List(ctx, tenantID, filters)
}
