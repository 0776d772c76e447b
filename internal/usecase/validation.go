package usecase

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Mesma forma exigida pelo formulário: local@domain.tld, sem espaços.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail devolve o email em minúsculas e sem espaços nas bordas.
// Essa é a chave de deduplicação de leads.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func ValidateSubmitLeadInput(input SubmitLeadInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	}

	email := NormalizeEmail(input.Email)
	if email == "" {
		errors = append(errors, ValidationError{"email", "is required"})
	} else if !IsValidEmail(email) {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	industry := strings.ToLower(strings.TrimSpace(input.Industry))
	if industry == "" {
		errors = append(errors, ValidationError{"industry", "is required"})
	} else if !entity.IsValidIndustry(industry) {
		errors = append(errors, ValidationError{"industry", "is not a known industry"})
	}

	return errors
}

func validationDomainError(validationErrors []ValidationError) *DomainError {
	errMsg := "validation failed: "
	for _, e := range validationErrors {
		errMsg += e.Field + " (" + e.Message + "), "
	}
	return &DomainError{
		Code:    "VALIDATION_ERROR",
		Message: errMsg,
	}
}
