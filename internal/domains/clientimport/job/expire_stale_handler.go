package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"iptv-manager/pkg/logger"
)

// ExpireStaleJobsPayload is scheduled with an empty body; RequestedAt is set
// only when the task is enqueued by hand.
type ExpireStaleJobsPayload struct {
	RequestedAt time.Time `json:"requested_at,omitempty"`
}

// StaleJobExpirer is the part of the import service this task drives.
type StaleJobExpirer interface {
	ExpireStaleJobs(ctx context.Context) (int64, error)
}

type ExpireStaleJobsHandler struct {
	imports StaleJobExpirer
}

func NewExpireStaleJobsHandler(imports StaleJobExpirer) *ExpireStaleJobsHandler {
	return &ExpireStaleJobsHandler{imports: imports}
}

func (h *ExpireStaleJobsHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload ExpireStaleJobsPayload
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			logger.Error("Unmarshal expire stale imports payload failed", err)
			// a malformed payload will never succeed
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
	}

	start := time.Now()
	expired, err := h.imports.ExpireStaleJobs(ctx)
	if err != nil {
		logger.Error("Expire stale import jobs failed", err)
		return err
	}

	log.Info().
		Int64("expired", expired).
		Dur("took", time.Since(start)).
		Time("requested_at", payload.RequestedAt).
		Msg("Expired stale import jobs")

	return nil
}
