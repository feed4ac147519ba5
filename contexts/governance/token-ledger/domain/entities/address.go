package entities

import "strings"

// NormalizeAddress canonicalizes an account address to its trimmed lowercase
// form. Addresses are case-insensitive identifiers, so every balance keys on
// the normalized form regardless of how the caller spelled it.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
