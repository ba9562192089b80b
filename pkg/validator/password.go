package validator

import (
	"unicode"

	"github.com/go-playground/validator/v10"
)

const (
	MinPasswordLength = 8

	// MaxPasswordLength matches the bcrypt input limit, so the strength
	// policy never accepts a password the hasher will refuse.
	MaxPasswordLength = 72
)

// CheckStrength returns the list of policy rules the password fails.
// An empty slice means the password is acceptable.
func CheckStrength(password string) []string {
	var errs []string

	if len(password) < MinPasswordLength {
		errs = append(errs, "password must be at least 8 characters")
	}
	if len(password) > MaxPasswordLength {
		errs = append(errs, "password must be at most 72 characters")
	}

	var (
		hasUpper   bool
		hasLower   bool
		hasNumber  bool
		hasSpecial bool
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	if !hasUpper {
		errs = append(errs, "password must contain an uppercase letter")
	}
	if !hasLower {
		errs = append(errs, "password must contain a lowercase letter")
	}
	if !hasNumber {
		errs = append(errs, "password must contain a number")
	}
	if !hasSpecial {
		errs = append(errs, "password must contain a special character")
	}

	return errs
}

// ValidateStrongPassword adapts CheckStrength to a validator tag.
func ValidateStrongPassword(fl validator.FieldLevel) bool {
	return len(CheckStrength(fl.Field().String())) == 0
}

func RegisterPasswordValidation(v *validator.Validate) {
	_ = v.RegisterValidation("strongpassword", ValidateStrongPassword)
}
