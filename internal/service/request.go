package service

import (
	"aroma-inventory/internal/apperror"
	"aroma-inventory/pkg/validator"
)

// validateRequest runs the struct tags and returns an InvalidArgument error
func validateRequest(req interface{}) error {
	if msg := validator.FirstError(req); msg != "" {
		return apperror.Invalid("%s", msg)
	}
	return nil
}
