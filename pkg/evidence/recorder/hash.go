package recorder

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// MaxHashSize is the maximum number of bytes hashed from large content.
const MaxHashSize = 1024 * 1024 // 1MB

// HashContent computes the SHA-256 hash of the content and returns it as a
// hex-encoded string. For content exceeding MaxHashSize, only the first
// MaxHashSize bytes are hashed.
//
// Returns an empty string if content is empty.
func HashContent(content []byte) string {
	if len(content) == 0 {
		return ""
	}

	if len(content) > MaxHashSize {
		content = content[:MaxHashSize]
	}

	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// HashString hashes a string and returns the hex-encoded SHA-256 hash.
func HashString(content string) string {
	return HashContent([]byte(content))
}

// Fingerprint identifies a finding across runs. Two findings share a
// fingerprint when rule, file, position and message are all equal.
func Fingerprint(rule, file string, line, column int, message string) string {
	return HashString(strings.Join([]string{
		rule,
		file,
		strconv.Itoa(line),
		strconv.Itoa(column),
		message,
	}, "|"))
}
