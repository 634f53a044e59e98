package repository

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

const timeLayout = time.RFC3339Nano

func checksum(blob []byte) string {
	sum := sha256.Sum256(blob)
	return hex.EncodeToString(sum[:])
}

// nowUTC returns the current UTC time formatted for storage.
func nowUTC() string {
	return time.Now().UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func capLimit(limit, n int) int {
	if limit <= 0 || limit > n {
		return n
	}
	return limit
}
