package security

import (
	"golang.org/x/crypto/bcrypt"

	"eventledger/internal/ports/output"
)

var _ output.PasswordHasher = (*Bcrypt)(nil)

// Bcrypt hashes passwords with golang.org/x/crypto/bcrypt.
// A zero Cost means bcrypt.DefaultCost.
type Bcrypt struct {
	Cost int
}

func (b *Bcrypt) Hash(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (b *Bcrypt) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
