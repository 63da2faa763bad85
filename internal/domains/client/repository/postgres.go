package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"iptv-manager/internal/domains/client/model"
)

const uniqueViolation = "23505"

type postgresRepository struct{}

func NewPostgresRepository() RepositoryInterface {
	return &postgresRepository{}
}

func (r *postgresRepository) InsertBatch(ctx context.Context, tx pgx.Tx, clients []model.Client) error {
	query := `
        INSERT INTO clients (
            id, owner_id, name, username, iptv_password, phone, renewal_date,
            server, application, mac, plan, email, value, screens, notes,
            import_job_id, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
    `

	batch := &pgx.Batch{}
	for _, c := range clients {
		batch.Queue(query,
			c.ID, c.OwnerID, c.Name, c.Username, c.IPTVPassword, c.Phone, c.RenewalDate,
			c.Server, c.Application, c.MAC, c.Plan, c.Email, c.Value, c.Screens, c.Notes,
			c.ImportJobID, c.CreatedAt,
		)
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()

	for _, c := range clients {
		if _, err := br.Exec(); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return fmt.Errorf("%w: %s", model.ErrUsernameTaken, c.Username)
			}
			return fmt.Errorf("%w: insert client %s: %v", model.ErrDatabaseQuery, c.Username, err)
		}
	}

	return nil
}
