package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-billing/internal/domain/entity"
	domainRepo "github.com/sangkips/restaurant-billing/internal/domain/repository"
	"gorm.io/gorm"
)

type menuRepository struct {
	db *gorm.DB
}

// NewMenuRepository creates a new menu repository
func NewMenuRepository(db *gorm.DB) domainRepo.MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) ReplaceAll(ctx context.Context, items []entity.MenuItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Soft delete keeps retired rows joinable from historic order items
		if err := tx.Where("1 = 1").Delete(&entity.MenuItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.CreateInBatches(&items, 100).Error
	})
}

func (r *menuRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.MenuItem, error) {
	var item entity.MenuItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *menuRepository) List(ctx context.Context, params *domainRepo.MenuFilterParams) ([]entity.MenuItem, int64, error) {
	var items []entity.MenuItem
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.MenuItem{})

	if params.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(params.Search)+"%")
	}

	if params.Category != "" {
		query = query.Where("LOWER(category) = ?", strings.ToLower(params.Category))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params.Pagination)).
		Order("category ASC, name ASC").
		Find(&items).Error

	return items, total, err
}

func (r *menuRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.MenuItem{}).Count(&total).Error
	return total, err
}
