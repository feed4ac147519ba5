package entities

import "strings"

// NormalizeAddress canonicalizes a principal address to its trimmed lowercase
// form. Addresses are case-insensitive identifiers: voter rows, candidacies,
// and balances all key on the normalized form, so one principal cannot hold
// two records by varying the casing.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
