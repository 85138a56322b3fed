package validator

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

type ErrorResponse struct {
	FailedField string `json:"failed_field"`
	Field       string `json:"field"`
	Tag         string `json:"tag"`
	Value       string `json:"value"`
}

func (e *ErrorResponse) Error() string {
	return fmt.Sprintf("field '%s' failed on tag '%s'", e.FailedField, e.Tag)
}

var validate = validator.New()

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errs []*ErrorResponse
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []*ErrorResponse{{FailedField: fmt.Sprintf("%T", data), Tag: "invalid"}}
	}
	for _, err := range verrs {
		var element ErrorResponse
		element.FailedField = err.StructNamespace()
		element.Field = err.StructField()
		element.Tag = err.Tag()
		element.Value = err.Param()
		errs = append(errs, &element)
	}
	return errs
}

// First returns the first validation failure of data as an error, or nil.
func First(data interface{}) error {
	if errs := ValidateStruct(data); len(errs) > 0 {
		return errs[0]
	}
	return nil
}
