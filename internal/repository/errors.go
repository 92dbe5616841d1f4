package repository

import (
	"errors"

	"aroma-inventory/internal/apperror"

	"gorm.io/gorm"
)

// notFoundOr maps a missing row to a NotFound domain error
func notFoundOr(err error, entity string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(entity, id)
	}
	return err
}

// duplicateOr maps a unique-index violation to a Duplicate domain error
func duplicateOr(err error, entity, field string, value any) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.Duplicate(entity, field, value)
	}
	return err
}

func paginate(page, pageSize int) (offset, limit int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}
	return (page - 1) * pageSize, pageSize
}
