package ports

// PasswordHasher is a salted adaptive one-way hash. Compare reports a
// mismatch as false, never as an error.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Compare(plaintext, hash string) bool
}
