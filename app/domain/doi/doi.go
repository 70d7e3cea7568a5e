// Package doi implements the DOI value type (spec §4.1): parsing,
// normalization, canonical URL rendering, and equality.
package doi

import (
	"regexp"
	"strings"
)

// validPattern is applied after prefix-stripping and lowercasing.
var validPattern = regexp.MustCompile(`^10\.\d{4,}/\S+$`)

// strippablePrefixes are tried in order, case-insensitively; first match
// wins.
var strippablePrefixes = []string{
	"https://doi.org/",
	"http://doi.org/",
	"https://dx.doi.org/",
	"http://dx.doi.org/",
	"doi:",
}

// DOI is a normalized Digital Object Identifier. The zero value is not a
// valid DOI; use Parse or Trusted to construct one, and ok/ valid to check
// presence.
type DOI struct {
	value string
	valid bool
}

// Parse trims, strips a known prefix, lowercases, and validates s against
// the DOI shape `10.<registrant>/<suffix>`. The second return value is
// false ("no DOI") when s does not yield a valid DOI.
func Parse(s string) (DOI, bool) {
	normalized := normalize(s)
	if !validPattern.MatchString(normalized) {
		return DOI{}, false
	}
	return DOI{value: normalized, valid: true}, true
}

// Trusted builds a DOI from an already-normalized string without running
// validation, for adapter-internal use when the provider itself asserts
// the value is a DOI (e.g. Crossref's own `/works/<doi>` path segment).
func Trusted(normalized string) DOI {
	return DOI{value: strings.ToLower(strings.TrimSpace(normalized)), valid: true}
}

func normalize(s string) string {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	for _, prefix := range strippablePrefixes {
		if strings.HasPrefix(lower, prefix) {
			s = s[len(prefix):]
			break
		}
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// Valid reports whether this DOI carries a value (false is the "no DOI"
// zero value produced by a failed Parse).
func (d DOI) Valid() bool {
	return d.valid
}

// String returns the normalized DOI string, e.g. "10.1038/s41586-019-1666-5".
func (d DOI) String() string {
	return d.value
}

// URL renders the DOI in canonical https://doi.org/<value> form.
func (d DOI) URL() string {
	if !d.valid {
		return ""
	}
	return "https://doi.org/" + d.value
}

// Equal reports whether two DOIs have byte-equal normalized forms. Two
// invalid ("no DOI") values are never equal to each other or to anything
// else.
func (d DOI) Equal(other DOI) bool {
	if !d.valid || !other.valid {
		return false
	}
	return d.value == other.value
}
