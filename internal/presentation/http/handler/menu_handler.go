package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/restaurant-billing/internal/application/service"
	"github.com/sangkips/restaurant-billing/internal/domain/repository"
	"github.com/sangkips/restaurant-billing/internal/presentation/http/dto/request"
	"github.com/sangkips/restaurant-billing/internal/presentation/http/dto/response"
	"github.com/sangkips/restaurant-billing/pkg/apperror"
	"github.com/sangkips/restaurant-billing/pkg/pagination"
)

// maxImportSize caps menu uploads
const maxImportSize = 10 << 20

// MenuHandler handles menu catalog HTTP requests
type MenuHandler struct {
	menuService *service.MenuService
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(menuService *service.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

// List handles listing the active catalog
func (h *MenuHandler) List(c *gin.Context) {
	var req request.MenuFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	params := &repository.MenuFilterParams{
		Pagination: &pagination.PaginationParams{Page: req.Page, PerPage: req.PerPage},
		Search:     req.Search,
		Category:   req.Category,
	}

	result, err := h.menuService.ListItems(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Menu retrieved successfully", result)
}

// Get handles looking up a single menu item
func (h *MenuHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "menu item")
	if !ok {
		return
	}

	item, err := h.menuService.GetItem(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Menu item retrieved successfully", item)
}

// Import replaces the catalog from an uploaded CSV or XLSX file
func (h *MenuHandler) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, apperror.NewFieldError("file", "a csv or xlsx file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	result, err := h.menuService.ImportFile(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Menu imported successfully", result)
}
