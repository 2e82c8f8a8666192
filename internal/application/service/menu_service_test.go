package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-billing/internal/domain/repository"
	"github.com/sangkips/restaurant-billing/pkg/apperror"
	"github.com/sangkips/restaurant-billing/pkg/pagination"
	"github.com/sangkips/restaurant-billing/pkg/sheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportFileCSV(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	csv := "Name,Category,Price\nMasala Dosa,Food,90\nFilter Coffee,Beverages,35.50\n\n"
	res, err := env.menuSvc.ImportFile(ctx, "menu.CSV", strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)

	list, err := env.menuSvc.ListItems(ctx, &repository.MenuFilterParams{})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)

	coffee := list.Items[0]
	assert.Equal(t, "Filter Coffee", coffee.Name)
	assert.Equal(t, int64(3550), coffee.Price)
	assert.Equal(t, "0.05", coffee.GSTPercent.String())
}

func TestImportFileXLSX(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, sheet.Write(&buf, sheet.FormatXLSX, &sheet.Table{
		Sheet:  "Menu",
		Header: []string{"name", "category", "price", "gst_percent"},
		Rows: [][]interface{}{
			{"Paneer Tikka", "Food", "180", "0.12"},
			{"Lassi", "Beverages", "60", ""},
		},
	}))

	res, err := env.menuSvc.ImportFile(ctx, "menu.xlsx", &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)

	list, err := env.menuSvc.ListItems(ctx, &repository.MenuFilterParams{Category: "food"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Paneer Tikka", list.Items[0].Name)
	assert.Equal(t, "0.12", list.Items[0].GSTPercent.String())
}

func TestImportRowsIsAllOrNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.menuSvc.ImportRows(ctx, []ImportMenuRow{
		{Name: "Idli", Category: "Food", Price: "40"},
		{Name: "", Category: "Food", Price: "10"},
		{Name: "Vada", Category: "Food", Price: "-5"},
		{Name: "Tea", Category: "Beverages", Price: "abc"},
		{Name: "Juice", Category: "Beverages", Price: "50", GSTPercent: "1.2"},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	appErr := apperror.GetAppError(err)
	fields := make([]string, len(appErr.Errors))
	for i, fe := range appErr.Errors {
		fields[i] = fe.Field
	}
	assert.Equal(t, []string{"row 3: name", "row 4: price", "row 5: price", "row 6: gst_percent"}, fields)

	count, err := env.menuRepo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(env.menu)), count, "catalog must be untouched")
}

func TestImportRowsRejectsOversizedPrice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.menuSvc.ImportRows(ctx, []ImportMenuRow{
		{Name: "Thali", Category: "Food", Price: "1e30"},
		{Name: "Feast", Category: "Food", Price: "10000000.01"},
	})
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	require.Len(t, appErr.Errors, 2)
	assert.Equal(t, "row 2: price", appErr.Errors[0].Field)
	assert.Equal(t, "row 3: price", appErr.Errors[1].Field)

	res, err := env.menuSvc.ImportRows(ctx, []ImportMenuRow{{Name: "Feast", Category: "Food", Price: "10000000"}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
}

func TestImportFileRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.menuSvc.ImportFile(ctx, "menu.txt", strings.NewReader("name,category,price\n"))
	assert.True(t, apperror.IsValidation(err), "unsupported extension")

	_, err = env.menuSvc.ImportFile(ctx, "menu.csv", strings.NewReader("name,price\nTea,10\n"))
	assert.True(t, apperror.IsValidation(err), "missing category column")

	_, err = env.menuSvc.ImportFile(ctx, "menu.csv", strings.NewReader("name,category,price\n"))
	assert.True(t, apperror.IsValidation(err), "no data rows")

	_, err = env.menuSvc.ImportFile(ctx, "menu.csv", strings.NewReader(""))
	assert.True(t, apperror.IsValidation(err), "empty file")
}

func TestGetItem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	pizza := env.menu["Margherita Pizza"]
	got, err := env.menuSvc.GetItem(ctx, pizza.ID)
	require.NoError(t, err)
	assert.Equal(t, "Margherita Pizza", got.Name)

	_, err = env.menuSvc.GetItem(ctx, uuid.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestListItemsPaginates(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.menuSvc.ListItems(context.Background(), &repository.MenuFilterParams{
		Pagination: &pagination.PaginationParams{Page: 2, PerPage: 2},
	})
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
	assert.Equal(t, int64(5), res.Pagination.Total)
	assert.Equal(t, 3, res.Pagination.TotalPages)
}
