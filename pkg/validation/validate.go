package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

var expenseCategories = map[string]bool{
	"travel":    true,
	"hotel":     true,
	"food":      true,
	"transport": true,
	"other":     true,
}

func init() {
	validate = validator.New()

	_ = validate.RegisterValidation("expense_category", func(fl validator.FieldLevel) bool {
		return expenseCategories[strings.ToLower(fl.Field().String())]
	})

	_ = validate.RegisterValidation("currency_code", func(fl validator.FieldLevel) bool {
		return currencyCodePattern.MatchString(fl.Field().String())
	})
}

// ValidateStruct validates a struct using its validation tags
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			return NewValidationError(errs)
		}
		return err
	}
	return nil
}
