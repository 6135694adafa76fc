package auth

import (
	"crypto/rand"
	"errors"
	"math/big"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// ErrWeakPassword carries the Spanish message the panel surfaces
// verbatim next to the password field.
var ErrWeakPassword = errors.New("La contraseña debe tener al menos 8 caracteres, una mayúscula, una minúscula y un número")

// ValidateStrong enforces the kitchen-account password policy: at least
// eight characters with an upper, a lower and a digit.
func ValidateStrong(password string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return ErrWeakPassword
	}
	return nil
}

const (
	passwordUpper  = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	passwordLower  = "abcdefghijkmnpqrstuvwxyz"
	passwordDigits = "23456789"
	passwordAll    = passwordUpper + passwordLower + passwordDigits
)

func randomIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// GeneratePassword produces a 12-character password that satisfies
// ValidateStrong, used by the reset flow so the admin can hand the new
// credential to the store. The alphabet skips lookalike characters.
func GeneratePassword() (string, error) {
	buf := make([]byte, 12)

	classes := []string{passwordUpper, passwordLower, passwordDigits}
	for i, class := range classes {
		idx, err := randomIndex(len(class))
		if err != nil {
			return "", err
		}
		buf[i] = class[idx]
	}
	for i := len(classes); i < len(buf); i++ {
		idx, err := randomIndex(len(passwordAll))
		if err != nil {
			return "", err
		}
		buf[i] = passwordAll[idx]
	}

	// Shuffle so the mandatory characters don't sit at fixed positions.
	for i := len(buf) - 1; i > 0; i-- {
		j, err := randomIndex(i + 1)
		if err != nil {
			return "", err
		}
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf), nil
}

// HashPassword wraps bcrypt at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
