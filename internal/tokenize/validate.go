package tokenize

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"anime-vault-go/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).Valid()
	}); err != nil {
		panic(fmt.Sprintf("register category validation: %v", err))
	}
	if err := validate.RegisterValidation("rarity", func(fl validator.FieldLevel) bool {
		return models.Rarity(fl.Field().String()).Valid()
	}); err != nil {
		panic(fmt.Sprintf("register rarity validation: %v", err))
	}
}

// ValidationResult lists the fields blocking forward navigation.
type ValidationResult struct {
	Missing []string `json:"missing,omitempty"`
	Invalid []string `json:"invalid,omitempty"`
}

func (r ValidationResult) Valid() bool {
	return len(r.Missing) == 0 && len(r.Invalid) == 0
}

// Err returns a *ValidationError, or nil when the result is valid.
func (r ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	return &ValidationError{Missing: r.Missing, Invalid: r.Invalid}
}

func (r ValidationResult) merge(other ValidationResult) ValidationResult {
	return ValidationResult{
		Missing: append(append([]string(nil), r.Missing...), other.Missing...),
		Invalid: append(append([]string(nil), r.Invalid...), other.Invalid...),
	}
}

type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid fields: "+strings.Join(e.Invalid, ", "))
	}
	return strings.Join(parts, "; ")
}

func ValidateDetails(details ItemDetails) ValidationResult {
	return check(details)
}

func ValidateVerification(verification Verification) ValidationResult {
	return check(verification)
}

// Validate checks both steps of a draft.
func Validate(draft Draft) ValidationResult {
	return ValidateDetails(draft.Details).merge(ValidateVerification(draft.Verification))
}

func check(s any) ValidationResult {
	err := validate.Struct(s)
	if err == nil {
		return ValidationResult{}
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationResult{Invalid: []string{fmt.Sprintf("%T", s)}}
	}

	var result ValidationResult
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required", "min":
			result.Missing = append(result.Missing, fe.Field())
		default:
			result.Invalid = append(result.Invalid, fe.Field())
		}
	}
	return result
}
