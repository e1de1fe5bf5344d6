package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a bcrypt hash for storage in the users table.
func HashPassword(plain string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
}

// ComparePassword reports whether plain matches the stored hash. A non-nil
// error means the credentials are wrong; callers map it to an auth failure.
func ComparePassword(hashed string, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
