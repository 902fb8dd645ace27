package utils

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator that reports JSON field names and knows
// the "phone", "username" and "duration" tags.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return ValidUsername(fl.Field().String())
	})
	_ = v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		return ValidDuration(fl.Field().String())
	})
	return v
}

// ValidPhone accepts up to 11 digits starting with 09.
func ValidPhone(phone string) bool {
	if len(phone) > 11 || !strings.HasPrefix(phone, "09") {
		return false
	}
	return IsNumeric(phone)
}

// ValidUsername accepts ASCII letters and digits, longer than four
// characters, not starting with a digit.
func ValidUsername(username string) bool {
	if len(username) <= 4 {
		return false
	}
	for i, r := range username {
		isDigit := r >= '0' && r <= '9'
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !isDigit && !isLetter {
			return false
		}
		if i == 0 && isDigit {
			return false
		}
	}
	return true
}

// ValidDuration accepts HH:MM:SS.
func ValidDuration(value string) bool {
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return false
	}
	for i, p := range parts {
		if len(p) != 2 || !IsNumeric(p) {
			return false
		}
		if i > 0 && p[0] > '5' {
			return false
		}
	}
	return true
}

// IsNumeric reports whether s is a non-empty run of ASCII digits.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
