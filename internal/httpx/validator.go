package httpx

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report JSON field names instead of Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateStruct runs validator tags on s and converts failures into
// response details. It returns nil when s is valid.
func ValidateStruct(s any) []ErrorDetail {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ErrorDetail{{Field: "", Message: err.Error()}}
	}

	details := make([]ErrorDetail, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		var message string
		switch fe.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", field)
		case "url":
			message = fmt.Sprintf("%s must be a valid URL", field)
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		case "len":
			message = fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
		case "gte":
			message = fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", field, fe.Param())
		case "datetime":
			message = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}
		details = append(details, ErrorDetail{Field: field, Message: message})
	}
	return details
}
