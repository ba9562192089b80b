package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashCost is deliberately above bcrypt's default so offline brute force
// stays expensive.
const HashCost = 12

// MaxPasswordBytes is bcrypt's input limit. Anything longer is rejected
// before hashing so an attacker cannot feed us arbitrarily large inputs.
const MaxPasswordBytes = 72

var (
	ErrEmptyPassword   = errors.New("password cannot be empty")
	ErrPasswordTooLong = errors.New("password exceeds maximum length")
)

func HashPassword(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}
	if len(plain) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), HashCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// ComparePassword reports whether plain matches the stored hash. A mismatch
// is (false, nil); an error is only returned for malformed hashes or
// over-length input.
func ComparePassword(hash, plain string) (bool, error) {
	if len(plain) > MaxPasswordBytes {
		return false, ErrPasswordTooLong
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
