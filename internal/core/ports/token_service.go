package ports

// TokenClaims is the identity assertion carried by a signed token.
type TokenClaims struct {
	UserID string
	Email  string
}

// TokenService signs and verifies compact time-bound bearer tokens.
// Verify never panics and never returns library errors: failures are one of
// domain.ErrTokenExpired, domain.ErrTokenSignatureInvalid or
// domain.ErrTokenMalformed. Verification is pure — repeated calls on the
// same token yield identical results.
type TokenService interface {
	Sign(claims TokenClaims) (string, error)
	Verify(token string) (*TokenClaims, error)
}
