package cache

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// evictBatch is how many oldest entries get dropped in one pass once
// the cache exceeds its maximum. Evicting in batches trades precision
// for far fewer file rewrites.
const evictBatch = 100

// FileCache is a durable fingerprint→response store backed by a single
// JSON file. Reads and writes go through an in-memory index; Set
// schedules an asynchronous flush and is immediately visible to Get.
// One mutex guards both the index and the file.
type FileCache struct {
	path    string
	maxSize int

	mu      sync.Mutex
	entries map[string]string
	order   []string
	loaded  bool
	wg      sync.WaitGroup
}

func NewFileCache(path string, maxSize int) *FileCache {
	return &FileCache{
		path:    path,
		maxSize: maxSize,
		entries: make(map[string]string),
	}
}

// Initialize loads the persisted state. It is idempotent; Get and Set
// also load lazily on first use.
func (c *FileCache) Initialize() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoadedLocked()
}

func (c *FileCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoadedLocked()
	v, ok := c.entries[key]
	return v, ok
}

// Set stores the response and schedules a durable flush without
// blocking the caller. When the entry count exceeds the maximum, the
// oldest entries by insertion order are dropped in one batch before
// the flush, so the bound holds by the time Set returns.
func (c *FileCache) Set(key, value string) {
	c.mu.Lock()
	c.ensureLoadedLocked()
	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
	}
	c.entries[key] = value
	if c.maxSize > 0 && len(c.entries) > c.maxSize {
		c.evictLocked()
	}
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.flush()
	}()
}

// Clear drops every entry and flushes synchronously.
func (c *FileCache) Clear() {
	c.mu.Lock()
	c.ensureLoadedLocked()
	c.entries = make(map[string]string)
	c.order = nil
	c.mu.Unlock()
	c.flush()
}

// Close waits for pending flushes and writes the final state. Call it
// on shutdown so the last Set is not lost to process exit.
func (c *FileCache) Close() {
	c.wg.Wait()
	c.flush()
}

// Len reports the current entry count.
func (c *FileCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoadedLocked()
	return len(c.entries)
}

func (c *FileCache) evictLocked() {
	n := evictBatch
	if n > len(c.order) {
		n = len(c.order)
	}
	for _, key := range c.order[:n] {
		delete(c.entries, key)
	}
	c.order = append([]string(nil), c.order[n:]...)
}

func (c *FileCache) ensureLoadedLocked() {
	if c.loaded {
		return
	}
	c.loaded = true

	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("failed to load cache %s: %v", c.path, err)
		}
		return
	}
	if len(data) == 0 {
		return
	}
	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("failed to parse cache %s: %v", c.path, err)
		return
	}
	c.entries = entries
	// The JSON object form does not preserve insertion order, so the
	// eviction order after a restart is arbitrary. Eviction precision
	// was already traded for fewer rewrites; see evictBatch.
	c.order = make([]string, 0, len(entries))
	for key := range entries {
		c.order = append(c.order, key)
	}
}

func (c *FileCache) flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.writeLocked(); err != nil {
		log.Printf("failed to save cache %s: %v", c.path, err)
	}
}

func (c *FileCache) writeLocked() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	f, err := os.OpenFile(c.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open write: %w", err)
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
		}
	}(f)
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c.entries); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
