package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Normalize cleans a word and its definition and joins them with a newline.
// Each part is trimmed, lowercased and given LF line endings, so cosmetic
// edits to a word list do not change the fingerprint.
func Normalize(word, definition string) string {
	clean := func(part string) string {
		p := strings.ReplaceAll(part, "\r\n", "\n")
		return strings.ToLower(strings.TrimSpace(p))
	}
	return clean(word) + "\n" + clean(definition)
}

// Of returns the hex SHA-256 of the normalized word and definition.
func Of(word, definition string) string {
	sum := sha256.Sum256([]byte(Normalize(word, definition)))
	return hex.EncodeToString(sum[:])
}
