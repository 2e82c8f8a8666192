package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/restaurant-billing/internal/application/service"
	"github.com/sangkips/restaurant-billing/internal/domain/billing"
	"github.com/sangkips/restaurant-billing/internal/domain/enum"
	"github.com/sangkips/restaurant-billing/internal/domain/repository"
	"github.com/sangkips/restaurant-billing/internal/presentation/http/dto/request"
	"github.com/sangkips/restaurant-billing/internal/presentation/http/dto/response"
	"github.com/sangkips/restaurant-billing/pkg/apperror"
	"github.com/sangkips/restaurant-billing/pkg/pagination"
)

// OrderHandler handles order lifecycle HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
	loc          *time.Location
}

// NewOrderHandler creates a new order handler. Date filters are read in loc.
func NewOrderHandler(orderService *service.OrderService, loc *time.Location) *OrderHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &OrderHandler{orderService: orderService, loc: loc}
}

// Create handles opening a new order
func (h *OrderHandler) Create(c *gin.Context) {
	var req request.BeginOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	order, err := h.orderService.BeginOrder(c.Request.Context(), req.Mode)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order created successfully", order)
}

// List handles listing orders
func (h *OrderHandler) List(c *gin.Context) {
	var req request.OrderFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	params, err := h.filterParams(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Orders retrieved successfully", result)
}

func (h *OrderHandler) filterParams(req *request.OrderFilterRequest) (*repository.OrderFilterParams, error) {
	params := &repository.OrderFilterParams{
		Pagination: &pagination.PaginationParams{Page: req.Page, PerPage: req.PerPage},
		SortOrder:  req.SortOrder,
	}
	var fieldErrors []apperror.FieldError

	if req.Status != "" {
		status, ok := enum.ParseOrderStatus(req.Status)
		if ok {
			params.Status = &status
		} else {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "status", Message: "must be PENDING, TOTALED or FINALIZED"})
		}
	}

	if req.Mode != "" {
		mode, ok := enum.ParseOrderMode(req.Mode)
		if ok {
			params.Mode = &mode
		} else {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "mode", Message: "must be DINE_IN or TAKEAWAY"})
		}
	}

	if req.StartDate != "" {
		from, err := time.ParseInLocation(service.DateLayout, req.StartDate, h.loc)
		if err == nil {
			params.From = &from
		} else {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "start_date", Message: "must be a date in YYYY-MM-DD format"})
		}
	}

	if req.EndDate != "" {
		end, err := time.ParseInLocation(service.DateLayout, req.EndDate, h.loc)
		if err == nil {
			to := end.AddDate(0, 0, 1)
			params.To = &to
		} else {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "end_date", Message: "must be a date in YYYY-MM-DD format"})
		}
	}

	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}
	if params.From != nil && params.To != nil && !params.From.Before(*params.To) {
		return nil, apperror.NewFieldError("start_date", "must not be after end_date")
	}
	return params, nil
}

// Get handles getting a single order with its items
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "order")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", order)
}

// AddItem handles appending a menu item to an order
func (h *OrderHandler) AddItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "order")
	if !ok {
		return
	}

	var req request.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	item, err := h.orderService.AddItem(c.Request.Context(), id, uuid.MustParse(req.ItemID), req.Qty)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Item added successfully", item)
}

// ComputeTotals handles (re)computing an order's totals
func (h *OrderHandler) ComputeTotals(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "order")
	if !ok {
		return
	}

	// An empty body computes totals with no discount and the default GST rate
	var req request.ComputeTotalsRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		bindFailed(c, err)
		return
	}

	discountType, ok := enum.ParseDiscountType(req.DiscountType)
	if !ok {
		response.Error(c, apperror.NewFieldError("discount_type", "must be NONE, FLAT or PERCENTAGE"))
		return
	}

	order, err := h.orderService.ComputeTotals(c.Request.Context(), id, service.ComputeTotalsInput{
		Discount: billing.Discount{Type: discountType, Value: req.DiscountValue},
		GSTRate:  req.GSTRate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Totals computed successfully", order)
}

// Finalize handles closing an order with a payment method
func (h *OrderHandler) Finalize(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "order")
	if !ok {
		return
	}

	var req request.FinalizeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	order, err := h.orderService.FinalizeOrder(c.Request.Context(), id, req.PaymentMethod)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order finalized successfully", order)
}
