package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iptv-manager/internal/domains/catalog/model"
	"iptv-manager/internal/domains/catalog/service"
)

type fakeRepo struct {
	servers    []model.Server
	plans      []model.Plan
	apps       []model.Application
	serversErr error
	plansErr   error
	appsErr    error
	createErr  error
	created    []model.Plan
}

func (f *fakeRepo) ListServers(ctx context.Context, ownerID string) ([]model.Server, error) {
	return f.servers, f.serversErr
}

func (f *fakeRepo) ListPlans(ctx context.Context, ownerID string) ([]model.Plan, error) {
	return f.plans, f.plansErr
}

func (f *fakeRepo) ListApplications(ctx context.Context, ownerID string) ([]model.Application, error) {
	return f.apps, f.appsErr
}

func (f *fakeRepo) CreatePlan(ctx context.Context, ownerID string, plan *model.Plan) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, p := range f.plans {
		if p.Name == plan.Name {
			return model.ErrPlanAlreadyExists
		}
	}
	f.plans = append(f.plans, *plan)
	f.created = append(f.created, *plan)
	return nil
}

func TestLookups_UsesRepository(t *testing.T) {
	repo := &fakeRepo{
		servers: []model.Server{{Name: "Servidor1"}},
		plans:   []model.Plan{{Name: "VIP", Price: decimal.NewFromInt(50)}},
		apps:    []model.Application{{Name: "App1"}},
	}
	svc := service.NewCatalogService(repo)

	l := svc.Lookups(context.Background(), "owner")

	assert.Equal(t, repo.servers, l.Servers)
	assert.Equal(t, repo.plans, l.Plans)
	assert.Equal(t, repo.apps, l.Applications)
}

func TestLookups_FallsBackPerKind(t *testing.T) {
	repo := &fakeRepo{
		servers:  []model.Server{{Name: "Servidor1"}},
		plansErr: errors.New("db down"),
		appsErr:  errors.New("db down"),
	}
	svc := service.NewCatalogService(repo)

	l := svc.Lookups(context.Background(), "owner")

	assert.Equal(t, repo.servers, l.Servers)
	assert.NotEmpty(t, l.Plans)
	assert.NotEmpty(t, l.Applications)

	_, ok := l.FindPlan("Mensal")
	assert.True(t, ok)
}

func TestEnsurePlans_CreatesOnlyMissing(t *testing.T) {
	repo := &fakeRepo{plans: []model.Plan{{Name: "VIP"}}}
	svc := service.NewCatalogService(repo)

	created, err := svc.EnsurePlans(context.Background(), "owner", []service.PlanSpec{
		{Name: "VIP", Price: decimal.NewFromInt(99)},
		{Name: "Basic", Price: decimal.NewFromInt(25)},
		{Name: " Basic ", Price: decimal.NewFromInt(30)},
		{Name: ""},
	})
	require.NoError(t, err)

	require.Len(t, created, 1)
	assert.Equal(t, "Basic", created[0].Name)
	assert.True(t, decimal.NewFromInt(25).Equal(created[0].Price))
}

func TestEnsurePlans_PropagatesFailure(t *testing.T) {
	repo := &fakeRepo{createErr: errors.New("insert failed")}
	svc := service.NewCatalogService(repo)

	_, err := svc.EnsurePlans(context.Background(), "owner", []service.PlanSpec{{Name: "Basic"}})
	assert.Error(t, err)
}

func TestCreatePlan_Validates(t *testing.T) {
	svc := service.NewCatalogService(&fakeRepo{})

	_, err := svc.CreatePlan(context.Background(), "owner", model.CreatePlanRequest{Name: ""})
	assert.Error(t, err)

	_, err = svc.CreatePlan(context.Background(), "owner", model.CreatePlanRequest{Name: "X", Price: decimal.NewFromInt(-1)})
	assert.Error(t, err)

	plan, err := svc.CreatePlan(context.Background(), "owner", model.CreatePlanRequest{Name: " Gold ", Price: decimal.NewFromInt(80)})
	require.NoError(t, err)
	assert.Equal(t, "Gold", plan.Name)
}
