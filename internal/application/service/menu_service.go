package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-billing/internal/domain/billing"
	"github.com/sangkips/restaurant-billing/internal/domain/entity"
	"github.com/sangkips/restaurant-billing/internal/domain/repository"
	"github.com/sangkips/restaurant-billing/pkg/apperror"
	"github.com/sangkips/restaurant-billing/pkg/pagination"
	"github.com/sangkips/restaurant-billing/pkg/sheet"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// MenuService handles catalog lookup and bulk import
type MenuService struct {
	menuRepo repository.MenuRepository
	log      logrus.FieldLogger
}

// NewMenuService creates a new menu service
func NewMenuService(menuRepo repository.MenuRepository, log logrus.FieldLogger) *MenuService {
	return &MenuService{
		menuRepo: menuRepo,
		log:      log,
	}
}

// ImportMenuRow is one raw row from an import file
type ImportMenuRow struct {
	Name       string
	Category   string
	Price      string
	GSTPercent string
}

// ImportResult summarises a completed import
type ImportResult struct {
	Imported int `json:"imported"`
}

// MaxMenuPrice bounds imported prices so their cent amounts stay well inside int64
var MaxMenuPrice = decimal.NewFromInt(10_000_000)

var importColumns = []string{"name", "category", "price", "gst_percent"}

// ImportFile parses a CSV or XLSX upload and replaces the catalog with its rows.
// The format is taken from the filename extension.
func (s *MenuService) ImportFile(ctx context.Context, filename string, r io.Reader) (*ImportResult, error) {
	format, err := sheet.FormatFromFilename(filename)
	if err != nil {
		return nil, apperror.NewFieldError("file", "must be a .csv or .xlsx file")
	}

	records, err := sheet.Read(r, format)
	if err != nil {
		return nil, apperror.NewFieldError("file", err.Error())
	}

	rows, err := mapImportRows(records)
	if err != nil {
		return nil, err
	}
	return s.ImportRows(ctx, rows)
}

// mapImportRows matches columns by header name, case-insensitively.
// The gst_percent column is optional.
func mapImportRows(records [][]string) ([]ImportMenuRow, error) {
	if len(records) == 0 {
		return nil, apperror.NewFieldError("file", "header row is required")
	}

	index := make(map[string]int, len(importColumns))
	for i, h := range records[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var missing []apperror.FieldError
	for _, col := range importColumns[:3] {
		if _, ok := index[col]; !ok {
			missing = append(missing, apperror.FieldError{Field: col, Message: "column is missing from header"})
		}
	}
	if len(missing) > 0 {
		return nil, apperror.NewValidationError(missing)
	}

	cell := func(record []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	rows := make([]ImportMenuRow, 0, len(records)-1)
	for _, record := range records[1:] {
		if isBlankRecord(record) {
			continue
		}
		rows = append(rows, ImportMenuRow{
			Name:       cell(record, "name"),
			Category:   cell(record, "category"),
			Price:      cell(record, "price"),
			GSTPercent: cell(record, "gst_percent"),
		})
	}
	return rows, nil
}

func isBlankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ImportRows validates every row and replaces the catalog in one transaction.
// Any invalid row fails the whole import and nothing is written.
func (s *MenuService) ImportRows(ctx context.Context, rows []ImportMenuRow) (*ImportResult, error) {
	if len(rows) == 0 {
		return nil, apperror.NewFieldError("file", "no menu rows found")
	}

	var fieldErrors []apperror.FieldError
	items := make([]entity.MenuItem, 0, len(rows))

	for i, row := range rows {
		rowNum := i + 2 // row 1 is the header
		rowErr := func(field, msg string) {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("row %d: %s", rowNum, field),
				Message: msg,
			})
		}

		name := strings.TrimSpace(row.Name)
		if name == "" {
			rowErr("name", "name is required")
		}

		price, err := decimal.NewFromString(strings.TrimSpace(row.Price))
		switch {
		case err != nil:
			rowErr("price", fmt.Sprintf("%q is not a number", row.Price))
		case price.IsNegative():
			rowErr("price", "must not be negative")
		case price.GreaterThan(MaxMenuPrice):
			rowErr("price", "must not exceed "+MaxMenuPrice.String())
		}

		gst := entity.DefaultGSTPercent
		if v := strings.TrimSpace(row.GSTPercent); v != "" {
			parsed, err := decimal.NewFromString(v)
			switch {
			case err != nil:
				rowErr("gst_percent", fmt.Sprintf("%q is not a number", v))
			case parsed.IsNegative() || parsed.GreaterThan(decimal.NewFromInt(1)):
				rowErr("gst_percent", "must be between 0 and 1")
			default:
				gst = parsed
			}
		}

		items = append(items, entity.MenuItem{
			Name:       name,
			Category:   strings.TrimSpace(row.Category),
			Price:      billing.ToCents(price),
			GSTPercent: gst,
		})
	}

	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	if err := s.menuRepo.ReplaceAll(ctx, items); err != nil {
		s.log.WithError(err).WithField("rows", len(items)).Error("menu import failed")
		return nil, err
	}

	s.log.WithField("rows", len(items)).Info("menu imported")
	return &ImportResult{Imported: len(items)}, nil
}

// GetItem looks up an active menu item
func (s *MenuService) GetItem(ctx context.Context, id uuid.UUID) (*entity.MenuItem, error) {
	item, err := s.menuRepo.GetByID(ctx, id)
	if err != nil {
		s.log.WithError(err).WithField("item_id", id).Error("failed to load menu item")
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("Menu item %s", id))
	}
	return item, nil
}

// ListItems returns a page of the active catalog
func (s *MenuService) ListItems(ctx context.Context, params *repository.MenuFilterParams) (*pagination.PaginatedResult[entity.MenuItem], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	items, total, err := s.menuRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(items, pag), nil
}
