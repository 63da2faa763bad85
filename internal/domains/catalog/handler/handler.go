package handler

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"iptv-manager/internal/domains/catalog/model"
	"iptv-manager/internal/domains/catalog/service"
	"iptv-manager/internal/shared/middleware"
	"iptv-manager/internal/shared/response"
)

type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(service service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// ListServers - GET /v1/catalog/servers
func (h *CatalogHandler) ListServers(c *gin.Context) {
	servers, err := h.service.ListServers(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		log.Error().Err(err).Msg("List servers failed")
		response.InternalServerError(c, "failed to list servers")
		return
	}
	response.Success(c, http.StatusOK, servers)
}

// ListPlans - GET /v1/catalog/plans
func (h *CatalogHandler) ListPlans(c *gin.Context) {
	plans, err := h.service.ListPlans(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		log.Error().Err(err).Msg("List plans failed")
		response.InternalServerError(c, "failed to list plans")
		return
	}
	response.Success(c, http.StatusOK, plans)
}

// ListApplications - GET /v1/catalog/applications
func (h *CatalogHandler) ListApplications(c *gin.Context) {
	apps, err := h.service.ListApplications(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		log.Error().Err(err).Msg("List applications failed")
		response.InternalServerError(c, "failed to list applications")
		return
	}
	response.Success(c, http.StatusOK, apps)
}

// CreatePlan - POST /v1/catalog/plans
func (h *CatalogHandler) CreatePlan(c *gin.Context) {
	var req model.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	plan, err := h.service.CreatePlan(c.Request.Context(), c.GetString(middleware.ContextUserID), req)
	if err != nil {
		var verrs validation.Errors
		switch {
		case errors.As(err, &verrs):
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "invalid plan", verrs)
		case errors.Is(err, model.ErrPlanAlreadyExists):
			response.ErrorResponse(c, http.StatusConflict, "PLAN_EXISTS", err.Error())
		default:
			log.Error().Err(err).Msg("Create plan failed")
			response.InternalServerError(c, "failed to create plan")
		}
		return
	}

	response.Success(c, http.StatusCreated, plan)
}
