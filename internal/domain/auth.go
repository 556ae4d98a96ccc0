package domain

import "time"

// Identity is the authenticated caller as asserted by a verified token.
type Identity struct {
	UserID   string
	Email    string
	Nickname string
}

// TokenIssuer issues tokens (e.g. JWT) for an identity.
type TokenIssuer interface {
	Issue(identity *Identity, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the identity it was issued for.
type TokenVerifier interface {
	Verify(token string) (*Identity, error)
}
