package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Hasher is the bcrypt-backed password hasher handed to the community
// service. It satisfies community.PasswordHasher.
type Hasher struct{}

// Hash hashes a plaintext password using bcrypt.
func (Hasher) Hash(password string) (string, error) {
	if len(password) == 0 {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether the plaintext password matches the stored hash.
func (Hasher) Verify(hash, password string) bool {
	if hash == "" || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
