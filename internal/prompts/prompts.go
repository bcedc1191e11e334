package prompts

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"usadba-bot/internal/intent"
)

// Resolver maps an intent category to its system instruction text.
// Prompt files are read from <dir>/<category>.txt and cached for the
// process lifetime; editing a prompt file requires a restart to take
// effect.
type Resolver struct {
	dir string

	mu    sync.Mutex
	cache map[intent.Category]string
}

func NewResolver(dir string) *Resolver {
	return &Resolver{
		dir:   dir,
		cache: make(map[intent.Category]string),
	}
}

// Resolve returns the prompt for the category, falling back to the
// general prompt when the category's file is missing. A missing general
// prompt is a configuration error and is returned to the caller.
func (r *Resolver) Resolve(cat intent.Category) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolveLocked(cat)
}

func (r *Resolver) resolveLocked(cat intent.Category) (string, error) {
	if text, ok := r.cache[cat]; ok {
		return text, nil
	}

	path := filepath.Join(r.dir, fmt.Sprintf("%s.txt", cat))
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to read prompt %s: %w", path, err)
		}
		if cat == intent.General {
			return "", fmt.Errorf("general prompt missing at %s: %w", path, err)
		}
		log.Printf("prompt file not found: %s, falling back to general", path)
		return r.resolveLocked(intent.General)
	}

	text := strings.TrimSpace(string(data))
	r.cache[cat] = text
	return text, nil
}
