package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestFileCache_ReadYourWrites(t *testing.T) {
	c := NewFileCache(filepath.Join(t.TempDir(), "cache.json"), 10)
	c.Set("k1", "ответ")
	// Visible immediately, before any flush completes.
	if v, ok := c.Get("k1"); !ok || v != "ответ" {
		t.Fatalf("get after set: ok=%v v=%q", ok, v)
	}
	c.Close()
}

func TestFileCache_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	c1 := NewFileCache(path, 10)
	c1.Set("k1", "значение")
	c1.Close()

	c2 := NewFileCache(path, 10)
	if v, ok := c2.Get("k1"); !ok || v != "значение" {
		t.Fatalf("value not persisted: ok=%v v=%q", ok, v)
	}
}

func TestFileCache_InitializeIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	c1 := NewFileCache(path, 10)
	c1.Set("k1", "v1")
	c1.Close()

	c2 := NewFileCache(path, 10)
	c2.Initialize()
	c2.Initialize()
	if v, ok := c2.Get("k1"); !ok || v != "v1" {
		t.Fatalf("double initialize lost state: ok=%v v=%q", ok, v)
	}
}

func TestFileCache_OverwriteSameKey(t *testing.T) {
	c := NewFileCache(filepath.Join(t.TempDir(), "cache.json"), 10)
	c.Set("k1", "старое")
	c.Set("k1", "новое")
	if v, _ := c.Get("k1"); v != "новое" {
		t.Fatalf("overwrite failed: %q", v)
	}
	if c.Len() != 1 {
		t.Fatalf("overwrite duplicated the entry: len=%d", c.Len())
	}
	c.Close()
}

func TestFileCache_BatchEviction(t *testing.T) {
	maxSize := 150
	c := NewFileCache(filepath.Join(t.TempDir(), "cache.json"), maxSize)
	for i := 0; i <= maxSize; i++ {
		c.Set(fmt.Sprintf("key-%03d", i), "v")
		if c.Len() > maxSize {
			t.Fatalf("bound violated after set %d: len=%d", i, c.Len())
		}
	}
	// Crossing the bound drops the oldest 100 in one batch.
	if got := c.Len(); got != maxSize+1-evictBatch {
		t.Fatalf("expected %d entries after batch eviction, got %d", maxSize+1-evictBatch, got)
	}
	// The oldest entries are gone, the newest survive.
	if _, ok := c.Get("key-000"); ok {
		t.Fatalf("oldest entry survived eviction")
	}
	if _, ok := c.Get(fmt.Sprintf("key-%03d", maxSize)); !ok {
		t.Fatalf("newest entry evicted")
	}
	c.Close()
}

func TestFileCache_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	c := NewFileCache(path, 10)
	c.Set("k1", "v1")
	c.Clear()
	if _, ok := c.Get("k1"); ok {
		t.Fatalf("clear left an entry behind")
	}

	c2 := NewFileCache(path, 10)
	if _, ok := c2.Get("k1"); ok {
		t.Fatalf("clear was not persisted")
	}
}

func TestFileCache_CorruptFileTreatedAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	c := NewFileCache(path, 10)
	if _, ok := c.Get("anything"); ok {
		t.Fatalf("corrupt file produced entries")
	}
	c.Set("k1", "v1")
	if v, _ := c.Get("k1"); v != "v1" {
		t.Fatalf("cache unusable after corrupt load")
	}
	c.Close()
}
