package middleware

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "fundview/internal/errors"
	"fundview/pkg/contracts/domain"
)

// QueryValidator validates decoded query parameter structs using struct
// tags. Field names in errors come from the `query` tag.
type QueryValidator struct {
	validator *validator.Validate
}

// NewQueryValidator creates a validator with the dashboard's custom tags
func NewQueryValidator() *QueryValidator {
	v := validator.New()

	// metric: one of the selectable secondary-axis metrics
	_ = v.RegisterValidation("metric", isValidMetric)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &QueryValidator{validator: v}
}

// Validate returns nil or an *apierrors.APIError listing every failed field
func (v *QueryValidator) Validate(s interface{}) error {
	err := v.validator.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apierrors.NewValidationErrors([]apierrors.ValidationError{{Message: err.Error()}})
	}

	out := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	return apierrors.NewValidationErrors(out)
}

func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "metric":
		names := make([]string, len(domain.Metrics))
		for i, m := range domain.Metrics {
			names[i] = string(m)
		}
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(names, ", "))
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

func isValidMetric(fl validator.FieldLevel) bool {
	_, err := domain.ParseMetric(fl.Field().String())
	return err == nil
}
