package handlers

import (
	"github.com/gin-gonic/gin"

	"clinicstats/internal/core/calendar"
	"clinicstats/internal/domain/reports"
	"clinicstats/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles ledger and statistics requests.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetDetailed handles GET /reports/detailed/:branchId
func (h *ReportsHandler) GetDetailed(c *gin.Context) {
	viewer, ok := h.Viewer(c)
	if !ok {
		return
	}
	branchID, ok := h.PathID(c, "branchId")
	if !ok {
		return
	}

	ledger, err := h.service.DetailedLedger(c.Request.Context(), viewer, branchID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromLedger(ledger))
}

// GetAllBranches handles GET /reports/all-branches?daily=
func (h *ReportsHandler) GetAllBranches(c *gin.Context) {
	viewer, ok := h.Viewer(c)
	if !ok {
		return
	}

	var req dto.AllBranchesRequest
	if !h.BindQuery(c, &req) {
		return
	}

	totals, err := h.service.BranchTotals(c.Request.Context(), viewer, req.Daily)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromBranchTotals(totals))
}

// GetStatistics handles GET /statistics/overview?range=&branchId=
func (h *ReportsHandler) GetStatistics(c *gin.Context) {
	viewer, ok := h.Viewer(c)
	if !ok {
		return
	}

	var req dto.StatisticsRequest
	if !h.BindQuery(c, &req) {
		return
	}
	branchID, ok := h.OptionalBranch(c)
	if !ok {
		return
	}

	stats, err := h.service.Statistics(c.Request.Context(), viewer, reports.StatisticsFilter{
		Range:    calendar.ParseRange(req.Range),
		BranchID: branchID,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromStatistics(stats))
}

// GetRevenueByTreatment handles GET /statistics/revenue-by-treatment?branchId=
func (h *ReportsHandler) GetRevenueByTreatment(c *gin.Context) {
	viewer, ok := h.Viewer(c)
	if !ok {
		return
	}
	branchID, ok := h.OptionalBranch(c)
	if !ok {
		return
	}

	rows, err := h.service.RevenueByTreatment(c.Request.Context(), viewer, branchID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromTreatmentRevenue(rows))
}
