package utils // password hashing helpers shared by the auth handlers

import "golang.org/x/crypto/bcrypt" // bcrypt implementation from x/crypto

// HashPassword returns the bcrypt hash of the plaintext password using
// the given cost.  The cost comes from configuration (BCRYPT_COST) so
// deployments can tune hashing work without a rebuild.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether the plaintext password matches the
// stored bcrypt hash.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
