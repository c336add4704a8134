package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/mastermind-creat/techsafi/pkg/apperror"
)

// HashPassword returns the bcrypt hash stored in ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword compares password with hash. An empty hash never matches.
func CheckPassword(hash, password string) error {
	if hash == "" {
		return apperror.ErrInvalidPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return apperror.ErrInvalidPassword
	}
	return nil
}
