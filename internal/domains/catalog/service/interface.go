package service

import (
	"context"

	"github.com/shopspring/decimal"

	"iptv-manager/internal/domains/catalog/model"
)

// CatalogService serves the reseller's reference data.
type CatalogService interface {
	ListServers(ctx context.Context, ownerID string) ([]model.Server, error)
	ListPlans(ctx context.Context, ownerID string) ([]model.Plan, error)
	ListApplications(ctx context.Context, ownerID string) ([]model.Application, error)
	CreatePlan(ctx context.Context, ownerID string, req model.CreatePlanRequest) (*model.Plan, error)

	// Lookups loads servers, plans and applications; a failed kind falls back to its default list.
	Lookups(ctx context.Context, ownerID string) model.Lookups

	// EnsurePlans creates every plan in specs that does not exist yet and returns the created ones.
	EnsurePlans(ctx context.Context, ownerID string, specs []PlanSpec) ([]model.Plan, error)
}

// PlanSpec names a plan to create if missing.
type PlanSpec struct {
	Name  string
	Price decimal.Decimal
}
