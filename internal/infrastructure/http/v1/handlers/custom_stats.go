package handlers

import (
	"github.com/gin-gonic/gin"

	"clinicstats/internal/core/apperror"
	"clinicstats/internal/domain/customstat"
	"clinicstats/internal/infrastructure/http/v1/dto"
)

// CustomStatsHandler handles custom statistic definitions.
type CustomStatsHandler struct {
	*BaseHandler
	service *customstat.Service
}

// NewCustomStatsHandler creates a new custom stats handler.
func NewCustomStatsHandler(base *BaseHandler, service *customstat.Service) *CustomStatsHandler {
	return &CustomStatsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /custom-stats?branchId=
func (h *CustomStatsHandler) List(c *gin.Context) {
	viewer, ok := h.Viewer(c)
	if !ok {
		return
	}
	branchID, ok := h.OptionalBranch(c)
	if !ok {
		return
	}

	stats, err := h.service.List(c.Request.Context(), viewer, branchID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromCustomStats(stats))
}

// Get handles GET /custom-stats/:id
func (h *CustomStatsHandler) Get(c *gin.Context) {
	viewer, ok := h.Viewer(c)
	if !ok {
		return
	}
	statID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	stat, err := h.service.Get(c.Request.Context(), viewer, statID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromCustomStat(stat))
}

// Create handles POST /custom-stats
func (h *CustomStatsHandler) Create(c *gin.Context) {
	viewer, ok := h.Viewer(c)
	if !ok {
		return
	}
	in, ok := h.bindInput(c)
	if !ok {
		return
	}

	stat, err := h.service.Create(c.Request.Context(), viewer, in)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromCustomStat(stat))
}

// Update handles PUT /custom-stats/:id
func (h *CustomStatsHandler) Update(c *gin.Context) {
	viewer, ok := h.Viewer(c)
	if !ok {
		return
	}
	statID, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	in, ok := h.bindInput(c)
	if !ok {
		return
	}

	stat, err := h.service.Update(c.Request.Context(), viewer, statID, in)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromCustomStat(stat))
}

// Delete handles DELETE /custom-stats/:id
func (h *CustomStatsHandler) Delete(c *gin.Context) {
	viewer, ok := h.Viewer(c)
	if !ok {
		return
	}
	statID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), viewer, statID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "custom stat deleted")
}

// Calculate handles GET /custom-stats/:id/calculate?branchId=
func (h *CustomStatsHandler) Calculate(c *gin.Context) {
	viewer, ok := h.Viewer(c)
	if !ok {
		return
	}
	statID, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	branchID, ok := h.OptionalBranch(c)
	if !ok {
		return
	}

	res, err := h.service.Calculate(c.Request.Context(), viewer, statID, branchID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromResult(res))
}

func (h *CustomStatsHandler) bindInput(c *gin.Context) (customstat.Input, bool) {
	var req dto.CustomStatRequest
	if !h.BindJSON(c, &req) {
		return customstat.Input{}, false
	}
	in, err := req.ToInput()
	if err != nil {
		h.Error(c, apperror.NewInvalidInput("branchId", *req.BranchID))
		return customstat.Input{}, false
	}
	return in, true
}
