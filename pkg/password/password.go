package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

// Two hash formats coexist: bcrypt is the current scheme, and the legacy
// "salt$hex" PBKDF2-SHA256 format is still accepted so that hashes imported
// from the previous system keep working. Verify handles both; NeedsUpgrade
// tells the caller to transparently re-hash after a successful legacy login.

const legacyIterations = 100000

// Hash hashes a password with the current scheme (bcrypt).
func Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify checks a password against either hash format.
func Verify(password, hash string) bool {
	if hash == "" {
		return false
	}
	if isBcrypt(hash) {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	}
	return verifyLegacy(password, hash)
}

// NeedsUpgrade reports whether a stored hash should be re-hashed with the
// current scheme.
func NeedsUpgrade(hash string) bool {
	if hash == "" {
		return true
	}
	if !isBcrypt(hash) {
		return true
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return true
	}
	return cost < bcrypt.DefaultCost
}

func isBcrypt(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") ||
		strings.HasPrefix(hash, "$2b$") ||
		strings.HasPrefix(hash, "$2y$")
}

// HashLegacy produces a legacy-format hash. Kept for tests and data imports.
func HashLegacy(password string) (string, error) {
	saltBytes := make([]byte, 16)
	if _, err := rand.Read(saltBytes); err != nil {
		return "", err
	}
	salt := hex.EncodeToString(saltBytes)
	derived := pbkdf2.Key([]byte(password), []byte(salt), legacyIterations, sha256.Size, sha256.New)
	return salt + "$" + hex.EncodeToString(derived), nil
}

func verifyLegacy(password, hash string) bool {
	parts := strings.SplitN(hash, "$", 2)
	if len(parts) != 2 {
		return false
	}
	salt, stored := parts[0], parts[1]
	derived := pbkdf2.Key([]byte(password), []byte(salt), legacyIterations, sha256.Size, sha256.New)
	return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(derived)), []byte(stored)) == 1
}
