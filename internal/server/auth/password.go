package auth

import "golang.org/x/crypto/bcrypt"

// DefaultHashCost is the bcrypt work factor used when the configuration
// does not override it. Digests self-describe their cost, so hashes
// created under an older cost stay verifiable after a bump.
const DefaultHashCost = 10

// HashPassword derives a salted bcrypt digest from plaintext.
func HashPassword(plaintext string, cost int) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// CheckPassword reports whether plaintext matches digest. Malformed
// digests count as a mismatch rather than an error, so callers treat
// "no match" uniformly.
func CheckPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
