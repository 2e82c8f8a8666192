package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/restaurant-billing/internal/application/service"
	"github.com/sangkips/restaurant-billing/internal/presentation/http/dto/response"
	"github.com/sangkips/restaurant-billing/pkg/apperror"
)

// PrinterHandler serves bills and drives the thermal printer.
type PrinterHandler struct {
	billService *service.BillService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(billService *service.BillService) *PrinterHandler {
	return &PrinterHandler{billService: billService}
}

// GetBill returns the bill of a finalized order as JSON, or as a PDF with ?format=pdf
func (h *PrinterHandler) GetBill(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "order")
	if !ok {
		return
	}

	bill, err := h.billService.BuildBill(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	switch c.DefaultQuery("format", "json") {
	case "json":
		response.OK(c, "Bill retrieved successfully", bill)
	case "pdf":
		data, err := h.billService.RenderPDF(bill)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Inline(c, "bill_"+bill.BillNo+".pdf", "application/pdf", data)
	default:
		response.Error(c, apperror.NewFieldError("format", "must be json or pdf"))
	}
}

// PrintBill sends the bill of a finalized order to the thermal printer.
func (h *PrinterHandler) PrintBill(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "order")
	if !ok {
		return
	}

	bill, err := h.billService.PrintBill(c.Request.Context(), id)
	if err != nil {
		// The bill was composed but the printer failed
		if bill != nil {
			response.ErrorWithData(c, http.StatusServiceUnavailable, "Bill generated but printing failed",
				gin.H{"bill": bill, "warning": err.Error()})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill printed successfully", gin.H{"bill": bill})
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.billService.GetStatus(c.Request.Context()))
}

// TestPrint sends a test page to the printer.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	bill, err := h.billService.TestPrint(c.Request.Context())
	if err != nil {
		response.OK(c, "Test print completed (printer may be disabled)", gin.H{
			"bill":    bill,
			"warning": err.Error(),
		})
		return
	}

	response.OK(c, "Test page sent to printer", gin.H{"bill": bill})
}
