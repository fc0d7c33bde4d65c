package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pyama86/breachtracker/domain/entity"
)

// ValidationError reports a payload that breaks a domain rule.
type ValidationError struct {
	Fields []string
	err    error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("validation failed: %v", e.err)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error {
	return e.err
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("calendar_date", func(fl validator.FieldLevel) bool {
		return entity.Date(fl.Field().String()).Valid()
	})
	return v
}

func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{err: err}
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return &ValidationError{Fields: fields, err: err}
}
