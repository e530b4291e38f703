package id

import (
	"regexp"
	"strings"
)

// MaxAddressLen matches the width of address columns in the store.
const MaxAddressLen = 66

// Addresses are opaque account identifiers: hex account ids, 0x-prefixed
// wallet addresses or readable names like "auction-escrow".
var reAddress = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]*$`)

func ValidAddress(s string) bool {
	return len(s) <= MaxAddressLen && reAddress.MatchString(s)
}

// NormalizeAddress trims surrounding space; it does not change case.
func NormalizeAddress(s string) string { return strings.TrimSpace(s) }
