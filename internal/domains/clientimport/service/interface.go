package service

import (
	"context"
	"io"
	"mime/multipart"
	"time"

	"github.com/google/uuid"

	catalogModel "iptv-manager/internal/domains/catalog/model"
	clientModel "iptv-manager/internal/domains/client/model"
	"iptv-manager/internal/domains/clientimport/model"
	"iptv-manager/internal/domains/clientimport/pipeline"
)

// ImportService runs the client spreadsheet import wizard.
type ImportService interface {
	// Upload guards, parses, normalizes and validates a file and opens a
	// preview session for it.
	Upload(ctx context.Context, ownerID string, file *multipart.FileHeader) (*model.ImportSession, error)
	Get(ctx context.Context, ownerID, sessionID string) (*model.ImportSession, error)
	Abandon(ctx context.Context, ownerID, sessionID string) error

	BulkEdit(ctx context.Context, ownerID, sessionID string, req model.BulkEditRequest) (*model.ImportSession, error)
	UpdateRecord(ctx context.Context, ownerID, sessionID string, index int, req model.RecordEditRequest) (*model.ImportSession, error)
	AutoCreatePlans(ctx context.Context, ownerID, sessionID string) ([]catalogModel.Plan, error)

	Submit(ctx context.Context, ownerID, sessionID string, confirm bool) (*model.SubmitResult, error)

	ListJobs(ctx context.Context, ownerID string, q model.ListJobsQuery) ([]model.ImportJob, int, error)
	ExpireStaleJobs(ctx context.Context) (int64, error)
	WriteTemplate(w io.Writer) error
}

// ClientImporter is the backend that receives the valid records in one batch.
type ClientImporter interface {
	ImportClients(ctx context.Context, ownerID string, importJobID uuid.UUID, clients []clientModel.NewClient) (int, error)
}

// Archiver keeps a copy of every uploaded file.
type Archiver interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// Options configures the import service.
type Options struct {
	Limits             pipeline.Limits
	ForeignApplication string
	StaleJobAfter      time.Duration
}
