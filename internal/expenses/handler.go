package expenses

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/triptally/expense-assistant/pkg/common"
	"github.com/triptally/expense-assistant/pkg/middleware"
)

// Handler handles HTTP requests for expenses
type Handler struct {
	service *Service
}

// NewHandler creates a new expense handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ParseDocument parses an expense document and stores the result
// POST /api/v1/expenses/parse
func (h *Handler) ParseDocument(c *gin.Context) {
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	tripID, err := uuid.Parse(req.TripID)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid trip id")
		return
	}

	result, err := h.service.ParseDocument(c.Request.Context(), userID, tripID, req.DocumentURL)
	if err != nil {
		common.ErrorResponseFromErr(c, err)
		return
	}

	common.SuccessResponse(c, result)
}

// CreateExpense records a manually entered expense
// POST /api/v1/expenses
func (h *Handler) CreateExpense(c *gin.Context) {
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	expense, err := h.service.CreateExpense(c.Request.Context(), userID, &req)
	if err != nil {
		common.ErrorResponseFromErr(c, err)
		return
	}

	common.SuccessResponse(c, expense)
}

// CreateUploadURL hands out a presigned destination for a receipt upload
// POST /api/v1/expenses/uploads
func (h *Handler) CreateUploadURL(c *gin.Context) {
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req UploadRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	target, err := h.service.CreateUploadURL(c.Request.Context(), userID, &req)
	if err != nil {
		common.ErrorResponseFromErr(c, err)
		return
	}

	common.SuccessResponse(c, target)
}

// UploadReceipt accepts a multipart receipt upload through the API
// POST /api/v1/expenses/receipts
func (h *Handler) UploadReceipt(c *gin.Context) {
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "receipt file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "failed to read receipt file")
		return
	}
	defer file.Close()

	result, err := h.service.UploadReceipt(c.Request.Context(), userID,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file, fileHeader.Size)
	if err != nil {
		common.ErrorResponseFromErr(c, err)
		return
	}

	common.SuccessResponse(c, result)
}

// GetExpense returns a single expense
// GET /api/v1/expenses/:id
func (h *Handler) GetExpense(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid expense id")
		return
	}

	expense, err := h.service.GetExpense(c.Request.Context(), id)
	if err != nil {
		common.ErrorResponseFromErr(c, err)
		return
	}

	common.SuccessResponse(c, expense)
}

// ListRecent returns the user's most recent expenses
// GET /api/v1/expenses?limit=10
func (h *Handler) ListRecent(c *gin.Context) {
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := 10
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	out, err := h.service.ListRecent(c.Request.Context(), userID, limit)
	if err != nil {
		common.ErrorResponseFromErr(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"expenses": out})
}

// RegisterRoutes registers expense routes on an authenticated group
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	expenses := api.Group("/expenses")
	{
		expenses.POST("", h.CreateExpense)
		expenses.POST("/parse", h.ParseDocument)
		expenses.POST("/uploads", h.CreateUploadURL)
		expenses.POST("/receipts", h.UploadReceipt)
		expenses.GET("", h.ListRecent)
		expenses.GET("/:id", h.GetExpense)
	}
}
