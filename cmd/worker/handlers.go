package main

import (
	"github.com/hibiken/asynq"

	importJob "iptv-manager/internal/domains/clientimport/job"
	"iptv-manager/internal/shared"
	"iptv-manager/pkg/container"
)

// HandlerRegistry holds all task handlers.
type HandlerRegistry struct {
	expireStaleImports *importJob.ExpireStaleJobsHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		expireStaleImports: c.ExpireStaleImportsHandler,
	}
}

// RegisterHandlers registers all handlers with the mux.
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeExpireStaleImports, h.expireStaleImports.ProcessTask)
}
