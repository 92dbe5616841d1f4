package validator

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

type ErrorResponse struct {
	FailedField string `json:"failed_field"`
	Tag         string `json:"tag"`
	Value       string `json:"value"`
}

var (
	validate        = validator.New()
	niptPattern     = regexp.MustCompile(`^[A-Za-z0-9]{10}$`)
	currencyPattern = regexp.MustCompile(`^[A-Za-z]{3}$`)
)

func init() {
	validate.RegisterValidation("nipt", func(fl validator.FieldLevel) bool {
		return niptPattern.MatchString(fl.Field().String())
	})
	validate.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		return currencyPattern.MatchString(fl.Field().String())
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		var verrs validator.ValidationErrors
		if !asValidationErrors(err, &verrs) {
			return []*ErrorResponse{{FailedField: "", Tag: "invalid", Value: err.Error()}}
		}
		for _, err := range verrs {
			var element ErrorResponse
			element.FailedField = err.StructNamespace()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}

// FirstError formats the first failure, or returns "" when data is valid
func FirstError(data interface{}) string {
	errs := ValidateStruct(data)
	if len(errs) == 0 {
		return ""
	}
	first := errs[0]
	return fmt.Sprintf("Validation failed: Field '%s' failed on tag '%s'", first.FailedField, first.Tag)
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	return errors.As(err, target)
}
