package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// FormatDay formats the UTC calendar day of t as YYYY-MM-DD
func FormatDay(t time.Time) string {
	if t.Unix() <= 0 {
		return ""
	}

	return t.UTC().Format("2006-01-02")
}

// Hash returns hex encoded sha256 of all parts joined by a zero byte
func Hash(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:])
}

func GetOkJSON() []byte {
	return []byte(`{"is_ok":true}`)
}
