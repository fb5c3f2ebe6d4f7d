package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores serialized extraction results and clause embeddings so
// repeated question batches against the same document skip re-fetching and
// re-embedding.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// DocumentKey generates a cache key from a document URL.
func DocumentKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "doc:v1:" + hex.EncodeToString(hash[:])
}
