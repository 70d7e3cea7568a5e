// Package idgen generates identifiers for call sites that need one but
// have no natural provider-native id to anchor to (the defensive
// document-id fallback for Crossref items without a DOI).
package idgen

import "github.com/google/uuid"

// GenerateSecureID returns a new random UUID string.
func GenerateSecureID() string {
	return uuid.New().String()
}
