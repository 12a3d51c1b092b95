// Package pathutil provides helpers for working with URL paths: extracting
// resource IDs and normalizing dynamic paths for metric labels.
package pathutil

import (
	"errors"
	"strings"
)

// ErrInvalidID is returned when the ID in the URL path is invalid.
var ErrInvalidID = errors.New("invalid id")

// itemIDLength is the length of a hex-encoded SHA-1 item ID.
const itemIDLength = 40

// ExtractID extracts an item ID from a URL path.
// It removes the given prefix and validates that the remainder looks like an
// item ID: exactly 40 lowercase hex characters, no further path segments.
//
// Example:
//
//	id, err := ExtractID("/items/0a1b...ff", "/items/")
func ExtractID(path, prefix string) (string, error) {
	id := strings.TrimPrefix(path, prefix)
	if len(id) != itemIDLength {
		return "", ErrInvalidID
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return "", ErrInvalidID
		}
	}
	return id, nil
}
