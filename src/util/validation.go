package util

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"fintrack-server/src/models"
)

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	colorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

	minAmount = decimal.New(1, -2)
	// amount is DECIMAL(10,2)
	maxAmount = decimal.RequireFromString("99999999.99")
)

const (
	minPasswordLength = 6
	maxTextLength     = 255
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func ValidateEmail(email string) bool {
	return emailRe.MatchString(email)
}

func ValidatePassword(password string) bool {
	return len(password) >= minPasswordLength
}

func ValidateColor(color string) bool {
	return colorRe.MatchString(color)
}

func ValidateRegister(req models.RegisterRequest) []FieldError {
	var errs []FieldError
	switch {
	case strings.TrimSpace(req.Name) == "":
		errs = append(errs, FieldError{"name", "name is required"})
	case utf8.RuneCountInString(req.Name) > maxTextLength:
		errs = append(errs, FieldError{"name", "name must be at most 255 characters"})
	}
	if !ValidateEmail(req.Email) {
		errs = append(errs, FieldError{"email", "invalid email"})
	}
	if !ValidatePassword(req.Password) {
		errs = append(errs, FieldError{"password", "password must be at least 6 characters"})
	}
	return errs
}

func ValidateLogin(email, password string) []FieldError {
	var errs []FieldError
	if !ValidateEmail(email) {
		errs = append(errs, FieldError{"email", "invalid email"})
	}
	if password == "" {
		errs = append(errs, FieldError{"password", "password is required"})
	}
	return errs
}

// ValidateTransaction checks the request body and returns the parsed date when
// it is valid.
func ValidateTransaction(req models.TransactionRequest) (civil.Date, []FieldError) {
	var errs []FieldError
	switch {
	case strings.TrimSpace(req.Description) == "":
		errs = append(errs, FieldError{"description", "description is required"})
	case utf8.RuneCountInString(strings.TrimSpace(req.Description)) > maxTextLength:
		errs = append(errs, FieldError{"description", "description must be at most 255 characters"})
	}
	switch {
	case req.Amount.LessThan(minAmount):
		errs = append(errs, FieldError{"amount", "amount must be greater than zero"})
	case req.Amount.GreaterThan(maxAmount):
		errs = append(errs, FieldError{"amount", "amount must be at most 99999999.99"})
	case !req.Amount.Equal(req.Amount.Round(2)):
		errs = append(errs, FieldError{"amount", "amount must have at most two decimal places"})
	}
	if !req.Type.Valid() {
		errs = append(errs, FieldError{"type", "type must be income or expense"})
	}
	d, err := civil.ParseDate(req.Date)
	if err != nil || !d.IsValid() {
		errs = append(errs, FieldError{"date", "invalid date"})
	}
	return d, errs
}

func ValidateCategory(name string, typ models.TransactionType, color string) []FieldError {
	var errs []FieldError
	switch {
	case strings.TrimSpace(name) == "":
		errs = append(errs, FieldError{"name", "category name is required"})
	case utf8.RuneCountInString(name) > maxTextLength:
		errs = append(errs, FieldError{"name", "category name must be at most 255 characters"})
	}
	if !typ.Valid() {
		errs = append(errs, FieldError{"type", "type must be income or expense"})
	}
	if color != "" && !ValidateColor(color) {
		errs = append(errs, FieldError{"color", "color must be #RRGGBB"})
	}
	return errs
}
