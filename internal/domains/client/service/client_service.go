package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"iptv-manager/internal/domains/client/model"
	"iptv-manager/internal/domains/client/repository"
	"iptv-manager/pkg/database"
)

type clientService struct {
	db   database.TxBeginner
	repo repository.RepositoryInterface
}

func NewClientService(db database.TxBeginner, repo repository.RepositoryInterface) ClientService {
	return &clientService{db: db, repo: repo}
}

func (s *clientService) ImportClients(ctx context.Context, ownerID string, importJobID uuid.UUID, inputs []model.NewClient) (int, error) {
	if len(inputs) == 0 {
		return 0, model.ErrEmptyBatch
	}

	var jobID *uuid.UUID
	if importJobID != uuid.Nil {
		jobID = &importJobID
	}

	now := time.Now()
	clients := make([]model.Client, 0, len(inputs))
	for _, in := range inputs {
		renewal, err := time.Parse("2006-01-02", in.RenewalDate)
		if err != nil {
			return 0, fmt.Errorf("%w: %s (%s)", model.ErrInvalidRenewal, in.RenewalDate, in.Username)
		}

		screens := in.Screens
		if screens < 1 {
			screens = 1
		}

		clients = append(clients, model.Client{
			ID:           uuid.New(),
			OwnerID:      ownerID,
			Name:         in.Name,
			Username:     in.Username,
			IPTVPassword: in.IPTVPassword,
			Phone:        in.Phone,
			RenewalDate:  renewal,
			Server:       in.Server,
			Application:  in.Application,
			MAC:          in.MAC,
			Plan:         in.Plan,
			Email:        in.Email,
			Value:        in.Value,
			Screens:      screens,
			Notes:        in.Notes,
			ImportJobID:  jobID,
			CreatedAt:    now,
		})
	}

	err := database.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		return s.repo.InsertBatch(ctx, tx, clients)
	})
	if err != nil {
		return 0, err
	}

	log.Info().
		Str("owner_id", ownerID).
		Str("import_job_id", importJobID.String()).
		Int("count", len(clients)).
		Msg("Imported clients")

	return len(clients), nil
}
