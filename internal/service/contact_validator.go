package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/portfolio-api/internal/dto"
)

// ValidationError lists the contact fields that were missing or too long.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid contact fields: %s", strings.Join(e.Fields, ", "))
}

// Unwrap lets callers match on ErrContactInvalid.
func (e *ValidationError) Unwrap() error {
	return ErrContactInvalid
}

// ContactValidator checks that every required contact field is present.
type ContactValidator struct {
	validate *validator.Validate
}

// NewContactValidator wraps a shared validator instance.
func NewContactValidator(validate *validator.Validate) *ContactValidator {
	if validate == nil {
		validate = validator.New(validator.WithRequiredStructEnabled())
	}
	return &ContactValidator{validate: validate}
}

// Validate returns a whitespace-trimmed copy of req, or a *ValidationError naming the offending fields.
func (v *ContactValidator) Validate(req dto.ContactRequest) (dto.ContactRequest, error) {
	normalized := req
	normalized.Name = strings.TrimSpace(req.Name)
	normalized.Email = strings.TrimSpace(req.Email)
	normalized.Phone = strings.TrimSpace(req.Phone)
	normalized.Description = strings.TrimSpace(req.Description)
	normalized.Token = strings.TrimSpace(req.Token)

	if err := v.validate.Struct(normalized); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return dto.ContactRequest{}, err
		}

		fields := make([]string, 0, len(validationErrors))
		for _, fieldErr := range validationErrors {
			fields = append(fields, fieldErr.Field())
		}
		return dto.ContactRequest{}, &ValidationError{Fields: fields}
	}

	return normalized, nil
}
