package links

import (
	"strings"

	"github.com/jaevor/go-nanoid"
)

const slugAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// reservedPrefixes are path prefixes slugs may never shadow.
var reservedPrefixes = [...]string{"api", "assets"}

// SlugGenerator produces random slugs of a fixed length.
type SlugGenerator func() string

// NewSlugGenerator builds a generator of alphanumeric slugs of the given
// length (uppercase, lowercase and digits).
func NewSlugGenerator(length int) (SlugGenerator, error) {
	gen, err := nanoid.CustomASCII(slugAlphabet, length)
	if err != nil {
		return nil, err
	}

	return SlugGenerator(gen), nil
}

// IsReserved reports whether a custom slug starts with a reserved prefix.
// The match is case-sensitive.
func IsReserved(slug string) bool {
	for _, prefix := range reservedPrefixes {
		if strings.HasPrefix(slug, prefix) {
			return true
		}
	}

	return false
}
