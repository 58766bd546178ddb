package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"tradehub-be/internal/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// V returns the shared validator. Field names in errors follow the json tags.
func V() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		validate.RegisterCustomTypeFunc(func(v reflect.Value) any {
			if d, ok := v.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})
	})
	return validate
}

// Struct validates s and converts the first failure into a ValidationError
// naming the offending field.
func Struct(s any) error {
	err := V().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return apperr.Validation(fieldPath(fe), "%s", describe(fe))
	}
	return apperr.Validation("", "%s", err.Error())
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "oneof":
		return field + " must be one of: " + fe.Param()
	case "gte", "min":
		return field + " must be at least " + fe.Param()
	case "gt":
		return field + " must be greater than " + fe.Param()
	case "lte", "max":
		return field + " must be at most " + fe.Param()
	default:
		return field + " is invalid (" + fe.Tag() + ")"
	}
}
