package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"banquet-backoffice/pkg/errutil"

	"github.com/go-playground/validator/v10"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())

	// Report violations against the wire name, not the Go field name.
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// future: a date that has not already passed.
	_ = val.RegisterValidation("future", func(fl validator.FieldLevel) bool {
		switch t := fl.Field().Interface().(type) {
		case time.Time:
			return t.After(time.Now())
		case string:
			parsed, err := time.Parse("2006-01-02", t)
			if err != nil {
				return false
			}
			return parsed.After(time.Now())
		default:
			return false
		}
	})

	return val
}

// Struct validates s against its struct tags and returns every violation as
// a field-level detail. It never short-circuits on the first failure and
// never panics on malformed input.
func Struct(s any) []errutil.Detail {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return []errutil.Detail{{Field: "_", Message: "invalid payload shape"}}
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []errutil.Detail{{Field: "_", Message: err.Error()}}
	}

	details := make([]errutil.Detail, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, errutil.Detail{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return details
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be %s or more", fe.Param())
	case "lte":
		return fmt.Sprintf("must be %s or less", fe.Param())
	case "future":
		return "must be a date in the future"
	case "datetime":
		return fmt.Sprintf("must match the format %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
