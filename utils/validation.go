package utils

import "github.com/go-playground/validator/v10"

// FieldError carries every failed rule for one request field.
type FieldError struct {
	Field   string   `json:"field"`
	Reasons []string `json:"reasons"`
}

var validationMessages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email address",
	"min":      "is too short",
	"max":      "is too long",
	"gte":      "must not be negative",
	"numeric":  "must be a number",
	"oneof":    "is not an allowed value",
	"uuid":     "must be a valid id",
}

// DescribeValidationErrors shapes validator output into a constraints list
// the client can attach to form fields.
func DescribeValidationErrors(err error) []FieldError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}

	byField := map[string]*FieldError{}
	var order []string
	for _, verr := range verrs {
		reason, ok := validationMessages[verr.Tag()]
		if !ok {
			reason = "is invalid"
		}

		field := verr.Field()
		if entry, ok := byField[field]; ok {
			entry.Reasons = append(entry.Reasons, reason)
			continue
		}
		byField[field] = &FieldError{Field: field, Reasons: []string{reason}}
		order = append(order, field)
	}

	described := make([]FieldError, 0, len(order))
	for _, field := range order {
		described = append(described, *byField[field])
	}
	return described
}
