package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"iptv-manager/internal/domains/clientimport/model"
)

// JobRepository tracks upload history in import_jobs.
// Status changes only apply to pending jobs.
type JobRepository interface {
	CreateJob(ctx context.Context, job *model.ImportJob) error
	SetFileURL(ctx context.Context, jobID uuid.UUID, url string) error
	AddWarning(ctx context.Context, jobID uuid.UUID, warning string) error
	MarkCompleted(ctx context.Context, jobID uuid.UUID, imported, failed int) error
	MarkFailed(ctx context.Context, jobID uuid.UUID, message string) error
	MarkCancelled(ctx context.Context, jobID uuid.UUID) error
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]model.ImportJob, int, error)

	// ExpireStale closes pending jobs created before cutoff: failed when a
	// submit error was recorded, expired otherwise.
	ExpireStale(ctx context.Context, cutoff time.Time) (int64, error)
}
