package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// GenerateDocumentNumber builds a human-legible document number such as
// ORD-20260901-4F7A2C. The random suffix makes collisions unlikely but
// not impossible; callers rely on the unique index and retry on
// conflict rather than trusting the generator.
func GenerateDocumentNumber(prefix string) string {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		// Fall back to a nanosecond-derived suffix; still subject to
		// the unique-index check on insert.
		return fmt.Sprintf("%s-%s-%06X", prefix, time.Now().UTC().Format("20060102"), time.Now().UnixNano()&0xFFFFFF)
	}
	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().UTC().Format("20060102"), strings.ToUpper(hex.EncodeToString(buf)))
}
