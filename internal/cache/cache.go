package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache defines the interface for verdict caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from a normalized claim. Claims are hashed
// case-insensitively so trivially re-cased claims hit the same entry.
func Key(claim string) string {
	hash := sha256.Sum256([]byte(strings.ToLower(claim)))
	return "veritas:v1:" + hex.EncodeToString(hash[:])
}
