// Package imdb extracts canonical IMDB identifiers from free-form input.
package imdb

import (
	"errors"
	"regexp"
)

// ErrInvalidIdentifier is returned when no IMDB id can be found in the input.
var ErrInvalidIdentifier = errors.New("no valid IMDB id in input")

var (
	idPattern    = regexp.MustCompile(`tt\d{7,10}`)
	exactPattern = regexp.MustCompile(`^tt\d{7,10}$`)
)

// Extract returns the canonical IMDB id contained in s. A string that is
// already a bare id is returned unchanged; otherwise the first id-shaped
// substring wins (covers full imdb.com URLs and copy-pasted text).
func Extract(s string) (string, error) {
	if exactPattern.MatchString(s) {
		return s, nil
	}
	if match := idPattern.FindString(s); match != "" {
		return match, nil
	}
	return "", ErrInvalidIdentifier
}
