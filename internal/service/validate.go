package service

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/priorly/priorly-server/internal/model"
)

var (
	emailPattern = regexp.MustCompile(`^[\w.]+@([\w-]+\.)+[\w-]{2,4}$`)
	namePattern  = regexp.MustCompile(`^[A-Za-z]+([.][A-Za-z]+)*([ ][A-Za-z]+([.][A-Za-z]+)*)*$`)
)

const passwordSpecials = `!@#$%^&*()_-+={}[]|;:'",.<>?/~`

func validateEmail(ve *model.ValidationError, field, email string) {
	if email == "" {
		ve.Add(field, "Email is required")
		return
	}
	if len(email) > 100 {
		ve.Add(field, "Email cannot be more than 100 characters long")
		return
	}
	if !emailPattern.MatchString(email) {
		ve.Add(field, "Please enter a valid email")
	}
}

func validateName(ve *model.ValidationError, field, name string) {
	if len(name) < 3 {
		ve.Add(field, "Name should at least contain 3 valid characters")
		return
	}
	if len(name) > 120 {
		ve.Add(field, "Name cannot be more than 120 characters long")
		return
	}
	if !namePattern.MatchString(name) {
		ve.Add(field, "Please enter a valid name")
	}
}

func validatePassword(ve *model.ValidationError, field, password string) {
	if len(password) < 8 {
		ve.Add(field, "Password must be at least 8 characters long")
		return
	}

	var hasLower, hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	switch {
	case !hasLower:
		ve.Add(field, "Password must contain at least one lowercase letter")
	case !hasUpper:
		ve.Add(field, "Password must contain at least one uppercase letter")
	case !hasDigit:
		ve.Add(field, "Password must contain at least one digit")
	case !strings.ContainsAny(password, passwordSpecials):
		ve.Add(field, "Password must contain at least one special character")
	}
}

func validatePasswordPair(ve *model.ValidationError, password, confirm string) {
	validatePassword(ve, "password", password)
	if password != confirm {
		ve.Add("confirmPassword", "Passwords do not match")
	}
}

// normalizeEmail performs case-insensitive canonicalization.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
