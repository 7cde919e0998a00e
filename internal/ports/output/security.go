package output

import "eventledger/internal/domain/entities"

// PasswordHasher hashes and verifies credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// TokenClaims is what a session token carries.
type TokenClaims struct {
	UserID uint
	Email  string
	Name   string
	Role   string
}

// TokenIssuer signs and verifies session tokens. Verify does not check that
// the user still exists.
type TokenIssuer interface {
	Issue(user *entities.User) (string, error)
	Verify(token string) (*TokenClaims, error)
}
