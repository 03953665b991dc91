package utils

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestDescribeValidationErrors(t *testing.T) {
	type form struct {
		Email string `validate:"required,email"`
		Name  string `validate:"required"`
	}

	v := validator.New()

	err := v.Struct(form{})
	described := DescribeValidationErrors(err)
	if len(described) != 2 {
		t.Fatalf("expected 2 field errors, got %d: %+v", len(described), described)
	}
	for _, fieldErr := range described {
		if len(fieldErr.Reasons) == 0 {
			t.Errorf("field %s has no reasons", fieldErr.Field)
		}
	}

	err = v.Struct(form{Email: "not-an-email", Name: "ok"})
	described = DescribeValidationErrors(err)
	if len(described) != 1 {
		t.Fatalf("expected 1 field error, got %d", len(described))
	}
	if described[0].Field != "Email" {
		t.Errorf("field = %q, want Email", described[0].Field)
	}
	if described[0].Reasons[0] != "must be a valid email address" {
		t.Errorf("reason = %q", described[0].Reasons[0])
	}
}

func TestDescribeValidationErrorsNonValidator(t *testing.T) {
	if got := DescribeValidationErrors(nil); got != nil {
		t.Errorf("expected nil for nil error, got %+v", got)
	}
}
