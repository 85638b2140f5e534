package models

import (
	"time"

	"github.com/google/uuid"
)

// TenantPlan enumerates the subscription plans a tenant can be on.
type TenantPlan string

const (
	PlanFree         TenantPlan = "free"
	PlanStarter      TenantPlan = "starter"
	PlanProfessional TenantPlan = "professional"
	PlanEnterprise   TenantPlan = "enterprise"
)

// MaxUsers returns the user limit associated with a plan. Unknown plans
// fall back to the free tier limit.
func (p TenantPlan) MaxUsers() int {
	switch p {
	case PlanFree:
		return 10
	case PlanStarter:
		return 50
	case PlanProfessional:
		return 200
	case PlanEnterprise:
		return 1000
	default:
		return 10
	}
}

func (p TenantPlan) IsValid() bool {
	switch p {
	case PlanFree, PlanStarter, PlanProfessional, PlanEnterprise:
		return true
	}
	return false
}

type Tenant struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	Name           string     `json:"name" db:"name"`
	Slug           string     `json:"slug" db:"slug"`
	LogoURL        *string    `json:"logo_url,omitempty" db:"logo_url"`
	PrimaryColor   string     `json:"primary_color" db:"primary_color"`
	SecondaryColor string     `json:"secondary_color" db:"secondary_color"`
	Plan           TenantPlan `json:"plan" db:"plan"`
	MaxUsers       int        `json:"max_users" db:"max_users"`
	IsActive       bool       `json:"is_active" db:"is_active"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// PublicTenant is the subset of tenant fields safe to expose on the
// unauthenticated branding endpoint.
type PublicTenant struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	LogoURL        *string   `json:"logo_url"`
	PrimaryColor   string    `json:"primary_color"`
	SecondaryColor string    `json:"secondary_color"`
	IsActive       bool      `json:"is_active"`
}

func (t *Tenant) Public() *PublicTenant {
	return &PublicTenant{
		ID:             t.ID,
		Name:           t.Name,
		Slug:           t.Slug,
		LogoURL:        t.LogoURL,
		PrimaryColor:   t.PrimaryColor,
		SecondaryColor: t.SecondaryColor,
		IsActive:       t.IsActive,
	}
}
