// Package validation validates request structs with go-playground/validator
// and reports failures as domain validation errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	domainerrors "github.com/shopfront/shopfront-server/internal/errors"
	"github.com/shopfront/shopfront-server/internal/slug"
)

// Prices are stored as DECIMAL(10,2): at most 8 integer digits and 2 decimals.
const (
	priceMaxDigits     = 10
	priceDecimalPlaces = 2
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+)*$`)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator with the shop's custom tags registered:
//
//	slug   lowercase ASCII words joined by '-' or '_', not a listing route
//	price  non-negative decimal string fitting DECIMAL(10,2)
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return slugPattern.MatchString(value) && !slug.IsReserved(value)
	})
	_ = v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		return ValidPrice(fl.Field().String())
	})

	return &Validator{v: v}
}

// ValidPrice reports whether s parses as a non-negative amount that fits
// ten digits with two decimal places.
func ValidPrice(s string) bool {
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return false
	}
	if d.Exponent() < -priceDecimalPlaces && !d.Equal(d.Round(priceDecimalPlaces)) {
		return false
	}
	intDigits := len(d.Truncate(0).Abs().String())
	return intDigits <= priceMaxDigits-priceDecimalPlaces
}

// Validate validates a struct and returns a domain error.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErrors := make(map[string]string, len(validationErrs))
	names := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		fieldErrors[e.Field()] = friendlyMessage(e)
		names = append(names, e.Field())
	}

	return domainerrors.ValidationWithDetails(
		"validation failed: "+strings.Join(names, ", "),
		fieldErrors,
	)
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "slug":
		if s, ok := e.Value().(string); ok && slug.IsReserved(s) {
			return "is reserved for a catalog listing"
		}
		return "must contain only lowercase letters, digits, hyphens and underscores"
	case "price":
		return "must be a non-negative amount with at most two decimal places"
	default:
		return "is invalid"
	}
}
