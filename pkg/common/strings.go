package common

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// IsStringInSlice returns true if string `str` is found in `slice`.
func IsStringInSlice(str string, slice []string) bool {
	for _, s := range slice {
		if str == s {
			return true
		}
	}
	return false
}

// Hash returns a short hex digest of `str`. Used for cache keys and temp file names, not for security.
func Hash(str string) string {
	sum := sha256.Sum256([]byte(str))
	return hex.EncodeToString(sum[:8])
}

// Truncate cuts `str` down to at most `maxLength` runes. Used when logging potentially huge inputs.
func Truncate(str string, maxLength int) string {
	runes := []rune(str)
	if len(runes) <= maxLength {
		return str
	}
	return strings.TrimSpace(string(runes[:maxLength])) + "..."
}
