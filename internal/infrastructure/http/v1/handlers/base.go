package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clinicstats/internal/core/apperror"
	"clinicstats/internal/core/id"
	"clinicstats/internal/core/security"
	"clinicstats/internal/infrastructure/http/v1/dto"
	"clinicstats/internal/infrastructure/http/v1/middleware"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds and validates JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// BindQuery binds and validates query parameters.
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid query parameters").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// Error registers error on Gin context and aborts request.
// Actual JSON response is produced by middleware.ErrorHandler.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// Viewer returns the request viewer, reporting an error response when absent.
func (h *BaseHandler) Viewer(c *gin.Context) (security.Viewer, bool) {
	viewer, err := middleware.GetViewer(c)
	if err != nil {
		h.Error(c, err)
		return viewer, false
	}
	return viewer, true
}

// PathID parses a required uuid path parameter.
func (h *BaseHandler) PathID(c *gin.Context, name string) (id.ID, bool) {
	raw := c.Param(name)
	parsed, err := id.Parse(raw)
	if err != nil {
		h.Error(c, apperror.NewInvalidInput(name, raw))
		return id.Nil(), false
	}
	return parsed, true
}

// OptionalBranch parses the optional branchId query parameter.
func (h *BaseHandler) OptionalBranch(c *gin.Context) (*id.ID, bool) {
	q := dto.BranchQuery{BranchID: c.Query("branchId")}
	branchID, err := q.Branch()
	if err != nil {
		h.Error(c, apperror.NewInvalidInput("branchId", q.BranchID))
		return nil, false
	}
	return branchID, true
}

// Created sends 201 response with data.
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Success sends success response.
func (h *BaseHandler) Success(c *gin.Context, message string) {
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: message})
}
