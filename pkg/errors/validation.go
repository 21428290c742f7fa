package errors

import (
	"strings"
	"unicode"
)

// PairSeparator mirrors graph.PairSeparator; genre ids must not contain it.
const PairSeparator = "__"

// MaxGenreIDLength bounds genre ids accepted from untrusted input.
const MaxGenreIDLength = 256

// ValidateGenreID checks that id can be used as a node id and as one half
// of a canonical edge id.
func ValidateGenreID(id string) error {
	switch {
	case id == "":
		return New(ErrCodeInvalidGenre, "genre id cannot be empty")
	case len(id) > MaxGenreIDLength:
		return New(ErrCodeInvalidGenre, "genre id too long (max %d characters)", MaxGenreIDLength)
	case strings.IndexFunc(id, unicode.IsControl) >= 0:
		return New(ErrCodeInvalidGenre, "genre id %q contains control characters", id)
	case strings.Contains(id, PairSeparator):
		return New(ErrCodeInvalidGenre, "genre id %q contains reserved separator %q", id, PairSeparator)
	}
	return nil
}

// ValidateURL checks that rawURL uses one of schemes, such as "redis" or
// "mongodb+srv". Scheme matching is case-insensitive.
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "URL cannot be empty")
	}
	scheme, _, ok := strings.Cut(rawURL, "://")
	if !ok {
		return New(ErrCodeInvalidConfig, "URL %q has no scheme", rawURL)
	}
	for _, s := range schemes {
		if strings.EqualFold(scheme, s) {
			return nil
		}
	}
	return New(ErrCodeInvalidConfig, "URL scheme %q not supported (want one of: %s)", scheme, strings.Join(schemes, ", "))
}
