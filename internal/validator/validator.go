package validator

import (
	"sync"

	ierr "github.com/flexprice/proposals/internal/errors"
	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

func NewValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
	})
	return validate
}

func GetValidator() *validator.Validate {
	return NewValidator()
}

// ValidateRequest runs struct tag validation and reports failures per field
func ValidateRequest(req interface{}) error {
	if err := GetValidator().Struct(req); err != nil {
		details := make(map[string]any)
		var validateErrs validator.ValidationErrors
		if ierr.As(err, &validateErrs) {
			for _, err := range validateErrs {
				details[err.Field()] = err.Error()
			}
		}
		return ierr.WithError(err).
			WithHint("Request validation failed").
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	}
	return nil
}
