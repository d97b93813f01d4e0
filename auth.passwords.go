package main

import "golang.org/x/crypto/bcrypt"

var _ PasswordHasher = (*BcryptHasher)(nil) // ensure BcryptHasher implements PasswordHasher.

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// BcryptHasher implements PasswordHasher on top of bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher provides a BcryptHasher with the default cost
// when the configured cost is out of the supported range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash derives a one-way hash from a clear password.
func (bh *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bh.cost)
	return string(hash), err
}

// Compare checks a clear password against a stored hash.
func (bh *BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
