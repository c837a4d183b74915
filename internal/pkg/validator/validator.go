package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

// Categories is the fixed listing category vocabulary
var Categories = []string{
	"Electronics", "Vehicles", "Property", "Furniture",
	"Fashion", "Books", "Sports", "Services", "Other",
}

func registerCustomValidations() {
	// Listing category validation
	validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		category := fl.Field().String()
		for _, c := range Categories {
			if category == c {
				return true
			}
		}
		return false
	})

	// Listing status validation
	validate.RegisterValidation("listing_status", func(fl validator.FieldLevel) bool {
		status := fl.Field().String()
		validStatuses := []string{"active", "sold", "removed"}
		for _, s := range validStatuses {
			if status == s {
				return true
			}
		}
		return false
	})

	// Payment status validation
	validate.RegisterValidation("payment_status", func(fl validator.FieldLevel) bool {
		status := fl.Field().String()
		validStatuses := []string{"pending", "success", "failed"}
		for _, s := range validStatuses {
			if status == s {
				return true
			}
		}
		return false
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "category":
			errors[field] = "Invalid category. Must be one of: " + strings.Join(Categories, ", ")
		case "listing_status":
			errors[field] = "Invalid status. Must be: active, sold, or removed"
		case "payment_status":
			errors[field] = "Invalid status. Must be: pending, success, or failed"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
