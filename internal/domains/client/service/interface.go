package service

import (
	"context"

	"github.com/google/uuid"

	"iptv-manager/internal/domains/client/model"
)

// ClientService persists subscribers.
type ClientService interface {
	// ImportClients inserts all clients in one transaction and returns how many
	// were created. Nothing is written when any client fails.
	ImportClients(ctx context.Context, ownerID string, importJobID uuid.UUID, clients []model.NewClient) (int, error)
}
