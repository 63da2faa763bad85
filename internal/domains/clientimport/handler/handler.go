package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"iptv-manager/internal/domains/clientimport/model"
	"iptv-manager/internal/domains/clientimport/reader"
	"iptv-manager/internal/domains/clientimport/service"
	"iptv-manager/internal/shared/middleware"
	"iptv-manager/internal/shared/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ImportHandler struct {
	service service.ImportService
}

func NewImportHandler(service service.ImportService) *ImportHandler {
	return &ImportHandler{service: service}
}

// Template - GET /v1/clients/import/template
func (h *ImportHandler) Template(c *gin.Context) {
	buf := &bytes.Buffer{}
	if err := h.service.WriteTemplate(buf); err != nil {
		log.Error().Err(err).Msg("Build import template failed")
		response.InternalServerError(c, "failed to build template")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, reader.TemplateFileName))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Upload - POST /v1/clients/import (multipart field "file")
func (h *ImportHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		model.HandleImportError(c, model.ErrFileTooLarge)
		return
	}
	if err != nil {
		response.BadRequest(c, "file is required (multipart/form-data)")
		return
	}

	ownerID := c.GetString(middleware.ContextUserID)
	log.Info().
		Str("owner_id", ownerID).
		Str("file_name", file.Filename).
		Int64("file_size", file.Size).
		Str("request_id", c.GetString(middleware.ContextRequestID)).
		Msg("[ImportHandler] Received import file")

	session, err := h.service.Upload(c.Request.Context(), ownerID, file)
	if model.HandleImportError(c, err) {
		return
	}

	response.Success(c, http.StatusCreated, toSessionResponse(session))
}

// Get - GET /v1/clients/import/:id
func (h *ImportHandler) Get(c *gin.Context) {
	sessionID, ok := sessionParam(c)
	if !ok {
		return
	}

	session, err := h.service.Get(c.Request.Context(), c.GetString(middleware.ContextUserID), sessionID)
	if model.HandleImportError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, toSessionResponse(session))
}

// Abandon - DELETE /v1/clients/import/:id
func (h *ImportHandler) Abandon(c *gin.Context) {
	sessionID, ok := sessionParam(c)
	if !ok {
		return
	}

	err := h.service.Abandon(c.Request.Context(), c.GetString(middleware.ContextUserID), sessionID)
	if model.HandleImportError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

// BulkEdit - POST /v1/clients/import/:id/bulk
func (h *ImportHandler) BulkEdit(c *gin.Context) {
	sessionID, ok := sessionParam(c)
	if !ok {
		return
	}

	var req model.BulkEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	session, err := h.service.BulkEdit(c.Request.Context(), c.GetString(middleware.ContextUserID), sessionID, req)
	if handleValidationError(c, err) || model.HandleImportError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, toSessionResponse(session))
}

// UpdateRecord - PATCH /v1/clients/import/:id/records/:index
func (h *ImportHandler) UpdateRecord(c *gin.Context) {
	sessionID, ok := sessionParam(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 1 {
		response.BadRequest(c, "index must be a positive integer")
		return
	}

	var req model.RecordEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	session, err := h.service.UpdateRecord(c.Request.Context(), c.GetString(middleware.ContextUserID), sessionID, index, req)
	if handleValidationError(c, err) || model.HandleImportError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, toSessionResponse(session))
}

// AutoCreatePlans - POST /v1/clients/import/:id/plans/auto-create
func (h *ImportHandler) AutoCreatePlans(c *gin.Context) {
	sessionID, ok := sessionParam(c)
	if !ok {
		return
	}

	created, err := h.service.AutoCreatePlans(c.Request.Context(), c.GetString(middleware.ContextUserID), sessionID)
	if model.HandleImportError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, gin.H{"created": created})
}

// Submit - POST /v1/clients/import/:id/submit
// An empty body submits without confirmation.
func (h *ImportHandler) Submit(c *gin.Context) {
	sessionID, ok := sessionParam(c)
	if !ok {
		return
	}

	var req model.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "invalid request body")
		return
	}

	ctx := c.Request.Context()
	ownerID := c.GetString(middleware.ContextUserID)

	result, err := h.service.Submit(ctx, ownerID, sessionID, req.Confirm)
	switch {
	case errors.Is(err, model.ErrNothingToImport):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, model.CodeNothingToImport,
			model.ErrNothingToImport.Message,
			model.Outcome{Kind: model.OutcomeRejected, Message: model.ErrNothingToImport.Message},
		)
		return

	case isSubmitFailure(err):
		var details interface{}
		if session, getErr := h.service.Get(ctx, ownerID, sessionID); getErr == nil {
			details = toSessionResponse(session)
		}
		var ie *model.ImportError
		errors.As(err, &ie)
		response.ErrorWithDetails(c, http.StatusBadGateway, ie.Code, ie.Message, details)
		return
	}
	if model.HandleImportError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, result)
}

// ListJobs - GET /v1/clients/import/jobs
func (h *ImportHandler) ListJobs(c *gin.Context) {
	var q model.ListJobsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}
	q.Normalize()

	jobs, total, err := h.service.ListJobs(c.Request.Context(), c.GetString(middleware.ContextUserID), q)
	if err != nil {
		log.Error().Err(err).Msg("List import jobs failed")
		response.InternalServerError(c, "failed to list import jobs")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, jobs, &response.Meta{Page: q.Page, Limit: q.Limit, Total: total})
}

// sessionParam reads :id; anything but a UUID cannot name a session.
func sessionParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		model.HandleImportError(c, model.ErrSessionNotFound)
		return "", false
	}
	return id, true
}

func handleValidationError(c *gin.Context, err error) bool {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return false
	}
	response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "invalid request", verrs)
	return true
}

func isSubmitFailure(err error) bool {
	var ie *model.ImportError
	return errors.As(err, &ie) && ie.Code == model.CodeSubmitFailed
}
