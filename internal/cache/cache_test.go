package cache

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestDocumentKey(t *testing.T) {
	a := DocumentKey("https://example.com/policy.pdf")
	b := DocumentKey("https://example.com/policy.pdf")
	c := DocumentKey("https://example.com/other.pdf")

	if a != b {
		t.Error("Same URL must produce the same key")
	}
	if a == c {
		t.Error("Different URLs must produce different keys")
	}
	if !strings.HasPrefix(a, "doc:v1:") {
		t.Errorf("Expected versioned key prefix, got %q", a)
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("Expected miss for unknown key")
	}

	if err := c.Set("k", []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, found := c.Get("k")
	if !found || !bytes.Equal(got, []byte("value")) {
		t.Errorf("Expected hit with %q, got %q (found=%v)", "value", got, found)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("Expected miss after delete")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute)

	if err := c.Set("k", []byte("value"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, found := c.Get("k"); found {
		t.Error("Expected entry to expire")
	}
}

func TestDiskCache(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if err := c.Set(DocumentKey("https://example.com/a.pdf"), []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, found := c.Get(DocumentKey("https://example.com/a.pdf"))
	if !found || !bytes.Equal(got, []byte("payload")) {
		t.Errorf("Expected hit with %q, got %q (found=%v)", "payload", got, found)
	}

	if err := c.Delete(DocumentKey("https://example.com/a.pdf")); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := c.Get(DocumentKey("https://example.com/a.pdf")); found {
		t.Error("Expected miss after delete")
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if err := c.Set("k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, found := c.Get("k"); found {
		t.Error("Expected entry to expire")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()

	// seed only the disk layer
	seed := NewDiskCache(dir, time.Minute)
	if err := seed.Set("k", []byte("persisted"), time.Minute); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	c := NewLayeredCache(time.Minute, dir, time.Minute)
	got, found := c.Get("k")
	if !found || !bytes.Equal(got, []byte("persisted")) {
		t.Fatalf("Expected disk hit, got %q (found=%v)", got, found)
	}

	// now present in memory too
	if _, found := c.memory.Get("k"); !found {
		t.Error("Expected disk hit promoted to memory")
	}
}
