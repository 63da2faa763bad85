package model

import (
	"time"

	"github.com/google/uuid"
)

// ImportJob is the history row kept for every upload.
type ImportJob struct {
	ID            uuid.UUID    `json:"id" db:"id"`
	OwnerID       string       `json:"owner_id" db:"owner_id"`
	FileName      string       `json:"file_name" db:"file_name"`
	FileURL       string       `json:"file_url,omitempty" db:"file_url"`
	FileSizeBytes int64        `json:"file_size_bytes" db:"file_size_bytes"`
	Format        ImportFormat `json:"format" db:"format"`

	TotalRows    int `json:"total_rows" db:"total_rows"`
	ValidRows    int `json:"valid_rows" db:"valid_rows"`
	ImportedRows int `json:"imported_rows" db:"imported_rows"`
	FailedRows   int `json:"failed_rows" db:"failed_rows"`

	Status       string   `json:"status" db:"status"`
	Warnings     []string `json:"warnings,omitempty" db:"warnings"`
	ErrorMessage *string  `json:"error_message,omitempty" db:"error_message"`

	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// Job status constants
const (
	JobStatusPending   = "pending"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
	JobStatusCancelled = "cancelled"
	JobStatusExpired   = "expired"
)
