package analytics

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/triptally/expense-assistant/pkg/common"
)

// Handler handles HTTP requests for trip analytics
type Handler struct {
	service *Service
}

// NewHandler creates a new analytics handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetTripAnalytics returns aggregated spending and insights for a trip
// GET /api/v1/analytics/trips/:id
func (h *Handler) GetTripAnalytics(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid trip id")
		return
	}

	analytics, err := h.service.GetTripAnalytics(c.Request.Context(), tripID)
	if err != nil {
		common.ErrorResponseFromErr(c, err)
		return
	}

	common.SuccessResponse(c, analytics)
}

// RegisterRoutes registers analytics routes on an authenticated group
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	analytics := api.Group("/analytics")
	{
		analytics.GET("/trips/:id", h.GetTripAnalytics)
	}
}
