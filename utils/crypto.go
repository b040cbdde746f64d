package utils

import (
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// GenerateHash signs fields for the signed XML gateway:
// sha1(sha1(f1.f2...fn) + "." + secret). Without fields it is sha1(secret).
func GenerateHash(sharedSecret string, toHash ...string) string {
	if len(toHash) == 0 {
		return sha1Hex(sharedSecret)
	}
	return sha1Hex(sha1Hex(strings.Join(toHash, ".")) + "." + sharedSecret)
}

func sha1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// GenerateOrderID returns a URL-safe, unpadded base64 rendering of a random UUID.
func GenerateOrderID() string {
	return base64.RawURLEncoding.EncodeToString([]byte(uuid.NewString()))
}

func GenerateRecurringKey() string {
	return strings.ToLower(uuid.NewString())
}

func EncodeString(input string) string {
	return base64.StdEncoding.EncodeToString([]byte(input))
}

func DecodeString(encoded string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
