package fraud

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/triptally/expense-assistant/pkg/common"
)

// Handler handles HTTP requests for fraud checks
type Handler struct {
	service *Service
}

// NewHandler creates a new fraud check handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// AnalyzeReceipt runs a fraud check over a stored expense
// POST /api/v1/fraud/analyze
func (h *Handler) AnalyzeReceipt(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	expenseID, err := uuid.Parse(req.ExpenseID)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid expense id")
		return
	}

	check, err := h.service.AnalyzeReceipt(c.Request.Context(), expenseID, req.DocumentURL)
	if err != nil {
		common.ErrorResponseFromErr(c, err)
		return
	}

	common.SuccessResponse(c, check)
}

// GetFraudCheck returns a stored verdict
// GET /api/v1/fraud/checks/:id
func (h *Handler) GetFraudCheck(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid fraud check id")
		return
	}

	check, err := h.service.GetFraudCheck(c.Request.Context(), id)
	if err != nil {
		common.ErrorResponseFromErr(c, err)
		return
	}

	common.SuccessResponse(c, check)
}

// ListByExpense returns all verdicts for an expense
// GET /api/v1/fraud/expenses/:id/checks
func (h *Handler) ListByExpense(c *gin.Context) {
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid expense id")
		return
	}

	checks, err := h.service.ListByExpense(c.Request.Context(), expenseID)
	if err != nil {
		common.ErrorResponseFromErr(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"fraud_checks": checks})
}

// RegisterRoutes registers fraud check routes on an authenticated group
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	fraud := api.Group("/fraud")
	{
		fraud.POST("/analyze", h.AnalyzeReceipt)
		fraud.GET("/checks/:id", h.GetFraudCheck)
		fraud.GET("/expenses/:id/checks", h.ListByExpense)
	}
}
