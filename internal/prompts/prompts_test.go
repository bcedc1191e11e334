package prompts

import (
	"os"
	"path/filepath"
	"testing"

	"usadba-bot/internal/intent"
)

func writePrompt(t *testing.T, dir, name, text string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".txt"), []byte(text), 0o644); err != nil {
		t.Fatalf("write prompt %s: %v", name, err)
	}
}

func TestResolve_ReadsPromptFile(t *testing.T) {
	dir := t.TempDir()
	writePrompt(t, dir, "buyer", "Ты консультант по участкам.\n")
	writePrompt(t, dir, "general", "Ты помощник проекта.")

	r := NewResolver(dir)
	got, err := r.Resolve(intent.Buyer)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != "Ты консультант по участкам." {
		t.Fatalf("unexpected prompt: %q", got)
	}
}

func TestResolve_MissingIntentFallsBackToGeneral(t *testing.T) {
	dir := t.TempDir()
	writePrompt(t, dir, "general", "Общий промпт")

	r := NewResolver(dir)
	got, err := r.Resolve(intent.Partner)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != "Общий промпт" {
		t.Fatalf("fallback not applied: %q", got)
	}
}

func TestResolve_MissingGeneralIsError(t *testing.T) {
	r := NewResolver(t.TempDir())
	if _, err := r.Resolve(intent.General); err == nil {
		t.Fatalf("expected error for missing general prompt")
	}
	if _, err := r.Resolve(intent.Buyer); err == nil {
		t.Fatalf("expected error when fallback target is missing too")
	}
}

func TestResolve_CachesForProcessLifetime(t *testing.T) {
	dir := t.TempDir()
	writePrompt(t, dir, "general", "до правки")

	r := NewResolver(dir)
	if got, _ := r.Resolve(intent.General); got != "до правки" {
		t.Fatalf("unexpected prompt: %q", got)
	}

	// An edit on disk is only picked up on restart.
	writePrompt(t, dir, "general", "после правки")
	if got, _ := r.Resolve(intent.General); got != "до правки" {
		t.Fatalf("cache not used: %q", got)
	}
}
