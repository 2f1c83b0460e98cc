package password

import "golang.org/x/crypto/bcrypt"

// cost matches the 12 rounds the rest of the platform hashes with.
const cost = 12

// Hash returns a salted bcrypt hash of the plaintext password.
func Hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify reports whether plain matches hash. It never returns an error on
// mismatch; a malformed hash simply verifies false.
func Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
