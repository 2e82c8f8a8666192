package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/restaurant-billing/internal/application/service"
	"github.com/sangkips/restaurant-billing/internal/presentation/http/dto/request"
	"github.com/sangkips/restaurant-billing/internal/presentation/http/dto/response"
	"github.com/sangkips/restaurant-billing/pkg/apperror"
)

// ReportHandler handles sales reporting HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Sales returns the sales report as JSON or as a csv, xlsx or pdf download
func (h *ReportHandler) Sales(c *gin.Context) {
	var req request.ReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}
	ctx := c.Request.Context()

	if isJSON(req.Format) {
		report, err := h.reportService.SalesReport(ctx, req.StartDate, req.EndDate)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, "Sales report generated successfully", report)
		return
	}

	export, err := h.reportService.ExportSalesReport(ctx, req.StartDate, req.EndDate, req.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, export.Filename, export.ContentType, export.Data)
}

// TopItems returns the best-selling items as JSON or as a csv or xlsx download
func (h *ReportHandler) TopItems(c *gin.Context) {
	var req request.ReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}
	ctx := c.Request.Context()

	if isJSON(req.Format) {
		items, err := h.reportService.TopItems(ctx, req.StartDate, req.EndDate, req.Limit)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, "Top items retrieved successfully", items)
		return
	}

	if strings.EqualFold(req.Format, "pdf") {
		response.Error(c, apperror.NewFieldError("format", "must be json, csv or xlsx"))
		return
	}

	export, err := h.reportService.ExportTopItems(ctx, req.StartDate, req.EndDate, req.Limit, req.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, export.Filename, export.ContentType, export.Data)
}

func isJSON(format string) bool {
	return format == "" || strings.EqualFold(format, "json")
}
