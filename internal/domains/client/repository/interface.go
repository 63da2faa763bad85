package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"iptv-manager/internal/domains/client/model"
)

type RepositoryInterface interface {
	// InsertBatch inserts clients inside tx; the first failure aborts the batch.
	InsertBatch(ctx context.Context, tx pgx.Tx, clients []model.Client) error
}
