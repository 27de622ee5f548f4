package persistence

import (
	"errors"

	"github.com/erp/installments/internal/domain/shared"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 500
)

// notFound maps gorm.ErrRecordNotFound to shared.ErrNotFound
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

// paginate applies offset and limit, clamping the page size
func paginate(filter shared.Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		size := filter.PageSize
		switch {
		case size <= 0:
			size = defaultPageSize
		case size > maxPageSize:
			size = maxPageSize
		}
		filter.PageSize = size
		return db.Offset(filter.Offset()).Limit(size)
	}
}
