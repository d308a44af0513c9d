package util

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// basic local@domain.tld shape
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("email_shape", func(fl validator.FieldLevel) bool {
		return emailRe.MatchString(fl.Field().String())
	})
	return v
}

// NormalizeEmail lowercases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsEmail reports whether s has a basic local@domain.tld shape.
func IsEmail(s string) bool {
	return emailRe.MatchString(s)
}

// RegisterInput is the consolidated registration validator: all violations
// are collected, not just the first.
type RegisterInput struct {
	Email       string `validate:"required,email_shape"`
	Password    string `validate:"required,min=8"`
	DisplayName string `validate:"required,min=2,max=64"`
}

// LoginInput is the pre-lookup credential shape check.
type LoginInput struct {
	Email    string `validate:"required,email_shape"`
	Password string `validate:"required"`
}

// PostInput validates post content after trimming. Length limits count
// runes, not bytes.
type PostInput struct {
	Content string `validate:"required,min=1,max=280"`
}

// Validate runs struct validation and returns every violation as a
// human-readable message. An empty slice means the input is valid.
func Validate(v any) []string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, messageFor(fe))
	}
	return msgs
}

func messageFor(fe validator.FieldError) string {
	field := fieldName(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email_shape":
		return fmt.Sprintf("%s must look like local@domain.tld", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func fieldName(name string) string {
	switch name {
	case "Email":
		return "email"
	case "Password":
		return "password"
	case "DisplayName":
		return "display_name"
	case "Content":
		return "content"
	default:
		return strings.ToLower(name)
	}
}
