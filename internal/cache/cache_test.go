package cache

import (
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	a := Key("The Earth Is Round")
	b := Key("the earth is round")
	if a != b {
		t.Errorf("Key must be case-insensitive: %q vs %q", a, b)
	}
	if a == Key("a different claim") {
		t.Error("Distinct claims must not collide")
	}
	if len(a) == 0 || a[:len("veritas:v1:")] != "veritas:v1:" {
		t.Errorf("Key must carry the version prefix, got %q", a)
	}
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("Expected miss for unknown key")
	}

	if err := c.Set("k", []byte("verdict"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, found := c.Get("k")
	if !found {
		t.Fatal("Expected hit after Set")
	}
	if string(val) != "verdict" {
		t.Errorf("Expected %q, got %q", "verdict", string(val))
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("Expected miss after Delete")
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if err := c.Set("k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, found := c.Get("k"); found {
		t.Error("Expected entry to expire")
	}
}

func TestDiskCache_RoundTrip(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("Expected miss for unknown key")
	}

	key := Key("some claim")
	if err := c.Set(key, []byte("verdict"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, found := c.Get(key)
	if !found {
		t.Fatal("Expected hit after Set")
	}
	if string(val) != "verdict" {
		t.Errorf("Expected %q, got %q", "verdict", string(val))
	}
}

func TestDiskCache_Expiration(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if err := c.Set("k", []byte("v"), time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, found := c.Get("k"); found {
		t.Error("Expected entry to expire")
	}
}

func TestLayeredCache_PromotesFromDisk(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Minute)

	if err := c.Set("k", []byte("verdict"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// Drop the memory layer; the disk layer should backfill it.
	if err := c.memory.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	val, found := c.Get("k")
	if !found {
		t.Fatal("Expected hit from disk after memory clear")
	}
	if string(val) != "verdict" {
		t.Errorf("Expected %q, got %q", "verdict", string(val))
	}

	if _, found := c.memory.Get("k"); !found {
		t.Error("Expected disk hit to be promoted to memory")
	}
}

func TestLayeredCache_Delete(t *testing.T) {
	c := NewLayeredCache(time.Minute, t.TempDir(), time.Minute)

	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("Expected miss after Delete")
	}
}
