package web

import "github.com/go-playground/validator/v10"

// GetErrorMsg translates the given field validation error into a
// human readable message suffix.
func GetErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return " field is required"
	case "min":
		return " must be greater or equal to " + fe.Param()
	case "max":
		return " must be less or equal to " + fe.Param()
	case "currency":
		return " field must contain a supported currency"
	case "alphanum":
		return " field must contain only alphanumeric characters"
	}

	return " field is invalid"
}
