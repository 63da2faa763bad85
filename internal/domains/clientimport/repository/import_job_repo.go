package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"iptv-manager/internal/domains/clientimport/model"
)

type importJobRepository struct {
	pool *pgxpool.Pool
}

func NewImportJobRepository(pool *pgxpool.Pool) JobRepository {
	return &importJobRepository{pool: pool}
}

func (r *importJobRepository) CreateJob(ctx context.Context, job *model.ImportJob) error {
	query := `
        INSERT INTO import_jobs (
            id, owner_id, file_name, file_url, file_size_bytes, format,
            total_rows, valid_rows, status, warnings, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `

	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now
	if job.Status == "" {
		job.Status = model.JobStatusPending
	}
	if job.Warnings == nil {
		job.Warnings = []string{}
	}

	_, err := r.pool.Exec(ctx, query,
		job.ID,
		job.OwnerID,
		job.FileName,
		job.FileURL,
		job.FileSizeBytes,
		job.Format,
		job.TotalRows,
		job.ValidRows,
		job.Status,
		pq.Array(job.Warnings),
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create import job: %w", err)
	}

	return nil
}

func (r *importJobRepository) SetFileURL(ctx context.Context, jobID uuid.UUID, url string) error {
	query := `UPDATE import_jobs SET file_url = $1, updated_at = NOW() WHERE id = $2`

	if _, err := r.pool.Exec(ctx, query, url, jobID); err != nil {
		return fmt.Errorf("failed to set import job file url: %w", err)
	}
	return nil
}

func (r *importJobRepository) AddWarning(ctx context.Context, jobID uuid.UUID, warning string) error {
	query := `
        UPDATE import_jobs
        SET warnings = array_append(warnings, $1),
            updated_at = NOW()
        WHERE id = $2
    `

	if _, err := r.pool.Exec(ctx, query, warning, jobID); err != nil {
		return fmt.Errorf("failed to add import job warning: %w", err)
	}
	return nil
}

func (r *importJobRepository) MarkCompleted(ctx context.Context, jobID uuid.UUID, imported, failed int) error {
	query := `
        UPDATE import_jobs
        SET status = $1,
            imported_rows = $2,
            failed_rows = $3,
            completed_at = NOW(),
            updated_at = NOW()
        WHERE id = $4 AND status = $5
    `

	_, err := r.pool.Exec(ctx, query, model.JobStatusCompleted, imported, failed, jobID, model.JobStatusPending)
	if err != nil {
		return fmt.Errorf("failed to complete import job: %w", err)
	}
	return nil
}

// MarkFailed records the last submit error. The job stays pending so the
// user can retry; ExpireStale later closes it as failed.
func (r *importJobRepository) MarkFailed(ctx context.Context, jobID uuid.UUID, message string) error {
	query := `
        UPDATE import_jobs
        SET error_message = $1,
            warnings = array_append(warnings, $1),
            updated_at = NOW()
        WHERE id = $2 AND status = $3
    `

	_, err := r.pool.Exec(ctx, query, message, jobID, model.JobStatusPending)
	if err != nil {
		return fmt.Errorf("failed to record import job failure: %w", err)
	}
	return nil
}

func (r *importJobRepository) MarkCancelled(ctx context.Context, jobID uuid.UUID) error {
	query := `
        UPDATE import_jobs
        SET status = $1, completed_at = NOW(), updated_at = NOW()
        WHERE id = $2 AND status = $3
    `

	_, err := r.pool.Exec(ctx, query, model.JobStatusCancelled, jobID, model.JobStatusPending)
	if err != nil {
		return fmt.Errorf("failed to cancel import job: %w", err)
	}
	return nil
}

func (r *importJobRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]model.ImportJob, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM import_jobs WHERE owner_id = $1`
	if err := r.pool.QueryRow(ctx, countQuery, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count import jobs: %w", err)
	}

	query := `
        SELECT id, owner_id, file_name, file_url, file_size_bytes, format,
               total_rows, valid_rows, imported_rows, failed_rows,
               status, warnings, error_message, completed_at, created_at, updated_at
        FROM import_jobs
        WHERE owner_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `

	rows, err := r.pool.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list import jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]model.ImportJob, 0, limit)
	for rows.Next() {
		var job model.ImportJob
		err := rows.Scan(
			&job.ID,
			&job.OwnerID,
			&job.FileName,
			&job.FileURL,
			&job.FileSizeBytes,
			&job.Format,
			&job.TotalRows,
			&job.ValidRows,
			&job.ImportedRows,
			&job.FailedRows,
			&job.Status,
			pq.Array(&job.Warnings),
			&job.ErrorMessage,
			&job.CompletedAt,
			&job.CreatedAt,
			&job.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan import job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate import jobs: %w", err)
	}

	return jobs, total, nil
}

func (r *importJobRepository) ExpireStale(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
        UPDATE import_jobs
        SET status = CASE WHEN error_message IS NULL THEN $1 ELSE $2 END,
            completed_at = NOW(),
            updated_at = NOW()
        WHERE status = $3 AND created_at < $4
    `

	tag, err := r.pool.Exec(ctx, query,
		model.JobStatusExpired, model.JobStatusFailed, model.JobStatusPending, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to expire stale import jobs: %w", err)
	}
	return tag.RowsAffected(), nil
}
