package booking

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const referencePrefix = "SWC"

var referenceRegex = regexp.MustCompile(`^SWC-\d{13,}-[0-9A-F]{8}$`)

// GenerateBookingReference creates a reference in the format
// "SWC-<epoch ms>-<8 hex chars>".
func GenerateBookingReference(now time.Time) (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate booking reference: %w", err)
	}
	return fmt.Sprintf("%s-%d-%s", referencePrefix, now.UnixMilli(), strings.ToUpper(hex.EncodeToString(buf))), nil
}

// IsBookingReference reports whether s looks like a generated reference.
func IsBookingReference(s string) bool {
	return referenceRegex.MatchString(s)
}
