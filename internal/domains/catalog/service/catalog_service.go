package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"iptv-manager/internal/domains/catalog/model"
	"iptv-manager/internal/domains/catalog/repository"
)

type catalogService struct {
	repo repository.RepositoryInterface
}

func NewCatalogService(repo repository.RepositoryInterface) CatalogService {
	return &catalogService{repo: repo}
}

func (s *catalogService) ListServers(ctx context.Context, ownerID string) ([]model.Server, error) {
	return s.repo.ListServers(ctx, ownerID)
}

func (s *catalogService) ListPlans(ctx context.Context, ownerID string) ([]model.Plan, error) {
	return s.repo.ListPlans(ctx, ownerID)
}

func (s *catalogService) ListApplications(ctx context.Context, ownerID string) ([]model.Application, error) {
	return s.repo.ListApplications(ctx, ownerID)
}

func (s *catalogService) CreatePlan(ctx context.Context, ownerID string, req model.CreatePlanRequest) (*model.Plan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	plan := &model.Plan{
		Name:    strings.TrimSpace(req.Name),
		Price:   req.Price,
		Screens: req.Screens,
	}
	if err := s.repo.CreatePlan(ctx, ownerID, plan); err != nil {
		return nil, err
	}

	log.Info().
		Str("owner_id", ownerID).
		Str("plan", plan.Name).
		Str("price", plan.Price.StringFixed(2)).
		Msg("Created plan")

	return plan, nil
}

func (s *catalogService) Lookups(ctx context.Context, ownerID string) model.Lookups {
	var lookups model.Lookups

	servers, err := s.repo.ListServers(ctx, ownerID)
	if err != nil {
		log.Warn().Err(err).Str("owner_id", ownerID).Msg("Server lookup failed, using default list")
		servers = defaultServers()
	}
	lookups.Servers = servers

	plans, err := s.repo.ListPlans(ctx, ownerID)
	if err != nil {
		log.Warn().Err(err).Str("owner_id", ownerID).Msg("Plan lookup failed, using default list")
		plans = defaultPlans()
	}
	lookups.Plans = plans

	apps, err := s.repo.ListApplications(ctx, ownerID)
	if err != nil {
		log.Warn().Err(err).Str("owner_id", ownerID).Msg("Application lookup failed, using default list")
		apps = defaultApplications()
	}
	lookups.Applications = apps

	return lookups
}

func (s *catalogService) EnsurePlans(ctx context.Context, ownerID string, specs []PlanSpec) ([]model.Plan, error) {
	existing, err := s.repo.ListPlans(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load plans: %w", err)
	}

	known := make(map[string]bool, len(existing))
	for _, p := range existing {
		known[p.Name] = true
	}

	var created []model.Plan
	for _, spec := range specs {
		name := strings.TrimSpace(spec.Name)
		if name == "" || known[name] {
			continue
		}

		plan := &model.Plan{Name: name, Price: spec.Price, Screens: 1}
		err := s.repo.CreatePlan(ctx, ownerID, plan)
		if errors.Is(err, model.ErrPlanAlreadyExists) {
			known[name] = true
			continue
		}
		if err != nil {
			return created, fmt.Errorf("create plan %q: %w", name, err)
		}

		known[name] = true
		created = append(created, *plan)
	}

	if len(created) > 0 {
		log.Info().Str("owner_id", ownerID).Int("count", len(created)).Msg("Auto-created missing plans")
	}

	return created, nil
}
