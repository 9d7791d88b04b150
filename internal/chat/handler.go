package chat

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/triptally/expense-assistant/pkg/common"
)

// Handler handles HTTP requests for document chat
type Handler struct {
	service *Service
}

// NewHandler creates a new chat handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Ask answers a question about a document
// POST /api/v1/chat
func (h *Handler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "question is required")
		return
	}

	resp, err := h.service.Ask(c.Request.Context(), &req)
	if err != nil {
		common.ErrorResponseFromErr(c, err)
		return
	}

	common.SuccessResponse(c, resp)
}

// DeleteCollection removes an indexed collection
// DELETE /api/v1/chat/collections/:id
func (h *Handler) DeleteCollection(c *gin.Context) {
	collection := c.Param("id")

	deleted, err := h.service.DeleteCollection(c.Request.Context(), collection)
	if err != nil {
		common.ErrorResponseFromErr(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"collection_id": collection, "chunks_deleted": deleted})
}

// RegisterRoutes registers chat routes on an authenticated group
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	chat := api.Group("/chat")
	{
		chat.POST("", h.Ask)
		chat.DELETE("/collections/:id", h.DeleteCollection)
	}
}
