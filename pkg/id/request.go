package id

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"
)

var (
	reRequestUUID  = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[1-5][a-f0-9]{3}-[89ab][a-f0-9]{3}-[a-f0-9]{12}$`)
	reRequestHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)
)

// NewRequestID returns 32 lowercase hex characters. It is the id stamped on
// published events and a valid Ax-Request-Id for clients without a UUID source.
func NewRequestID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic("id: crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// ValidRequestID accepts a lowercase RFC 4122 UUID (versions 1-5) or 32
// lowercase hex characters. Surrounding space is ignored; upper case is not.
func ValidRequestID(s string) bool {
	s = strings.TrimSpace(s)
	return reRequestUUID.MatchString(s) || reRequestHex32.MatchString(s)
}
