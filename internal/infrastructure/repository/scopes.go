package repository

import (
	"time"

	"github.com/sangkips/restaurant-billing/pkg/pagination"
	"gorm.io/gorm"
)

// Paginate returns a GORM scope applying the page window of p.
// A nil p uses the default page.
func Paginate(p *pagination.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if p == nil {
			p = pagination.DefaultPagination()
		}
		p.Validate()
		return db.Offset(p.Offset()).Limit(p.PerPage)
	}
}

// CreatedWithin returns a GORM scope keeping rows with from <= created_at < to.
// Either bound may be nil. Bounds are compared in UTC, the zone rows are stored in.
func CreatedWithin(column string, from, to *time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if from != nil {
			db = db.Where(column+" >= ?", from.UTC())
		}
		if to != nil {
			db = db.Where(column+" < ?", to.UTC())
		}
		return db
	}
}
