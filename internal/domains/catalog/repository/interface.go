package repository

import (
	"context"

	"iptv-manager/internal/domains/catalog/model"
)

// RepositoryInterface reads and writes a reseller's catalog.
type RepositoryInterface interface {
	ListServers(ctx context.Context, ownerID string) ([]model.Server, error)
	ListPlans(ctx context.Context, ownerID string) ([]model.Plan, error)
	ListApplications(ctx context.Context, ownerID string) ([]model.Application, error)
	CreatePlan(ctx context.Context, ownerID string, plan *model.Plan) error
}
