package id

import (
	"strings"
	"testing"
)

func TestValidAddress(t *testing.T) {
	for _, s := range []string{
		NewRequestID(),
		"0x" + strings.Repeat("ab", 20),
		"auction-escrow",
		"appraiser.1",
		strings.Repeat("a", MaxAddressLen),
	} {
		if !ValidAddress(s) {
			t.Fatalf("expected %q to be valid", s)
		}
	}
	for _, s := range []string{
		"",
		" lender",
		"-leading-dash",
		"has space",
		"semi;colon",
		strings.Repeat("a", MaxAddressLen+1),
	} {
		if ValidAddress(s) {
			t.Fatalf("expected %q to be invalid", s)
		}
	}
}

func TestNormalizeAddress(t *testing.T) {
	if got := NormalizeAddress("  Lender-1 \n"); got != "Lender-1" {
		t.Fatalf("NormalizeAddress = %q", got)
	}
}
