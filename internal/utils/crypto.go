// internal/utils/crypto.go
package utils

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"strings"
)

const (
	alphanumeric   = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	licenseCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

func randomFrom(charset string, length int) (string, error) {
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		b[i] = charset[n.Int64()]
	}
	return string(b), nil
}

func GenerateRandomString(length int) (string, error) {
	return randomFrom(alphanumeric, length)
}

// GenerateLicenseKey returns four dash separated groups of four uppercase
// alphanumerics, e.g. 7K2Q-M9XA-0PLD-ZR4T.
func GenerateLicenseKey() (string, error) {
	groups := make([]string, 4)
	for i := range groups {
		g, err := randomFrom(licenseCharset, 4)
		if err != nil {
			return "", err
		}
		groups[i] = g
	}
	return strings.Join(groups, "-"), nil
}

// HMACSHA256Hex signs message with secret and hex encodes the digest.
func HMACSHA256Hex(secret, message string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyHMACSHA256Hex compares in constant time.
func VerifyHMACSHA256Hex(secret, message, signature string) bool {
	expected := HMACSHA256Hex(secret, message)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}
