package credentials

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	HashVersionBcrypt = "bcrypt"
	MinPasswordLength = 8
)

var (
	ErrPasswordTooShort = errors.New("password too short")
	ErrPasswordMismatch = errors.New("password does not match")
)

// HashPassword returns the bcrypt hash of password and the version tag
// stored next to it.
func HashPassword(password string) (hash string, version string, err error) {
	if len(password) < MinPasswordLength {
		return "", "", ErrPasswordTooShort
	}

	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), HashVersionBcrypt, nil
}

// VerifyPassword reports ErrPasswordMismatch for a wrong password. Any
// other error means the stored hash is unusable.
func VerifyPassword(hash string, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}
