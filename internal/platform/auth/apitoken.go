package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

// TokenPrefix tags mission control secrets so they are recognizable in
// configuration files. It carries no authentication weight on its own.
const TokenPrefix = "mc_live_"

// DisplayPrefixLen is how much of the plaintext is kept for display in token
// listings.
const DisplayPrefixLen = 8

const tokenEntropyBytes = 24

// GenerateAPIToken returns a new plaintext secret: the literal prefix tag
// followed by unpadded URL-safe base64 of 24 random bytes.
func GenerateAPIToken() (string, error) {
	buf := make([]byte, tokenEntropyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return TokenPrefix + base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashAPIToken computes the hex-encoded SHA-256 digest of the full plaintext
// secret. Lookup and equality are always by this digest, never by plaintext.
func HashAPIToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// DisplayPrefix derives the short prefix persisted for listings.
func DisplayPrefix(token string) string {
	if len(token) < DisplayPrefixLen {
		return token
	}
	return token[:DisplayPrefixLen]
}
