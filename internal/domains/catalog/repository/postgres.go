package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"iptv-manager/internal/domains/catalog/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) ListServers(ctx context.Context, ownerID string) ([]model.Server, error) {
	query := `
        SELECT id, name, created_at
        FROM servers
        WHERE owner_id = $1
        ORDER BY name
    `

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: list servers: %v", model.ErrDatabaseQuery, err)
	}

	servers, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Server])
	if err != nil {
		return nil, fmt.Errorf("%w: scan servers: %v", model.ErrDatabaseQuery, err)
	}
	return servers, nil
}

func (r *postgresRepository) ListPlans(ctx context.Context, ownerID string) ([]model.Plan, error) {
	query := `
        SELECT id, name, price, screens, created_at
        FROM plans
        WHERE owner_id = $1
        ORDER BY name
    `

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: list plans: %v", model.ErrDatabaseQuery, err)
	}
	defer rows.Close()

	var plans []model.Plan
	for rows.Next() {
		var p model.Plan
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Screens, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan plan: %v", model.ErrDatabaseQuery, err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate plans: %v", model.ErrDatabaseQuery, err)
	}
	return plans, nil
}

func (r *postgresRepository) ListApplications(ctx context.Context, ownerID string) ([]model.Application, error) {
	query := `
        SELECT id, name, created_at
        FROM applications
        WHERE owner_id = $1
        ORDER BY name
    `

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: list applications: %v", model.ErrDatabaseQuery, err)
	}

	apps, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Application])
	if err != nil {
		return nil, fmt.Errorf("%w: scan applications: %v", model.ErrDatabaseQuery, err)
	}
	return apps, nil
}

// CreatePlan inserts plan; a plan with the same name for the owner yields ErrPlanAlreadyExists.
func (r *postgresRepository) CreatePlan(ctx context.Context, ownerID string, plan *model.Plan) error {
	query := `
        INSERT INTO plans (id, owner_id, name, price, screens, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (owner_id, name) DO NOTHING
        RETURNING id
    `

	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	plan.CreatedAt = time.Now()

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, query,
		plan.ID, ownerID, plan.Name, plan.Price, plan.Screens, plan.CreatedAt,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrPlanAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("%w: create plan: %v", model.ErrDatabaseQuery, err)
	}

	return nil
}
