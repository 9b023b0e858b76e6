package utils

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/voltprep/revision-service/internal/models"
)

// Validator wraps a shared go-playground validator instance with the service's
// custom tags registered.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates the shared validator instance.
func NewValidator() *Validator {
	validate := validator.New()
	RegisterCustomValidators(validate)
	return &Validator{validate: validate}
}

// Validate validates struct tags on s.
func (v *Validator) Validate(s interface{}) error {
	return v.validate.Struct(s)
}

// Custom validation functions

func ValidateLevel(fl validator.FieldLevel) bool {
	return models.Level(fl.Field().String()).Valid()
}

func ValidateOptionIndex(fl validator.FieldLevel) bool {
	idx := fl.Field().Int()
	return idx >= 0 && idx < models.OptionCount
}

// RegisterCustomValidators registers all custom validators
func RegisterCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("level", ValidateLevel)
	validate.RegisterValidation("option_index", ValidateOptionIndex)

	// Register custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
