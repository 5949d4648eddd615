package domain

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const maxQuizIDLen = 128

// NormalizeQuizID returns the canonical form of a quiz identifier: NFC,
// trimmed, and with purely numeric ids stripped of leading zeros so "007"
// and "7" name the same quiz.
func NormalizeQuizID(raw string) (string, error) {
	id := strings.TrimSpace(norm.NFC.String(raw))
	if id == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidQuizID)
	}
	if len(id) > maxQuizIDLen {
		return "", fmt.Errorf("%w: longer than %d bytes", ErrInvalidQuizID, maxQuizIDLen)
	}
	for _, r := range id {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return "", fmt.Errorf("%w: %q contains whitespace or control characters", ErrInvalidQuizID, raw)
		}
	}
	if n, err := strconv.ParseUint(id, 10, 64); err == nil {
		return strconv.FormatUint(n, 10), nil
	}
	return id, nil
}

// CanonicalQuizID normalizes ids already in storage, falling back to the
// raw value when it does not normalize.
func CanonicalQuizID(raw string) string {
	if id, err := NormalizeQuizID(raw); err == nil {
		return id
	}
	return raw
}
