package intent

import (
	"os"
	"path/filepath"
	"testing"
)

func TestClassify_BuyerKeywords(t *testing.T) {
	c := NewClassifier(t.TempDir())
	if got := c.Classify("Хочу купить участок"); got != Buyer {
		t.Fatalf("want buyer, got %s", got)
	}
}

func TestClassify_Investor(t *testing.T) {
	c := NewClassifier(t.TempDir())
	if got := c.Classify("Какой доход и окупаемость у вложения?"); got != Investor {
		t.Fatalf("want investor, got %s", got)
	}
}

func TestClassify_ZeroScoreFallsBackToGeneral(t *testing.T) {
	c := NewClassifier(t.TempDir())
	if got := c.Classify("qwerty asdf"); got != General {
		t.Fatalf("want general, got %s", got)
	}
}

func TestClassify_EmptyInput(t *testing.T) {
	c := NewClassifier(t.TempDir())
	if got := c.Classify("   "); got != General {
		t.Fatalf("want general for empty input, got %s", got)
	}
}

func TestClassify_TieBreakIsPriorityOrder(t *testing.T) {
	c := NewClassifier(t.TempDir())
	// One buyer keyword and one investor keyword: buyer wins the tie.
	text := "купить ради дохода"
	for i := 0; i < 50; i++ {
		if got := c.Classify(text); got != Buyer {
			t.Fatalf("tie-break not deterministic: got %s on run %d", got, i)
		}
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	c := NewClassifier(t.TempDir())
	if got := c.Classify("КУПИТЬ УЧАСТОК"); got != Buyer {
		t.Fatalf("want buyer for upper-case input, got %s", got)
	}
}

func TestNewClassifier_LoadsMapFile(t *testing.T) {
	dir := t.TempDir()
	mapJSON := `{"tenant": ["аренда", "снять"], "general": ["проект"]}`
	if err := os.WriteFile(filepath.Join(dir, "prompt_map.json"), []byte(mapJSON), 0o644); err != nil {
		t.Fatalf("write map: %v", err)
	}
	c := NewClassifier(dir)
	if got := c.Classify("хочу снять в аренду"); got != Category("tenant") {
		t.Fatalf("want tenant from configured map, got %s", got)
	}
	// Keywords from the built-in defaults must not leak in.
	if got := c.Classify("окупаемость вложения"); got != General {
		t.Fatalf("default keywords leaked: got %s", got)
	}
}

func TestNewClassifier_BrokenMapFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "prompt_map.json"), []byte("{broken"), 0o644); err != nil {
		t.Fatalf("write map: %v", err)
	}
	c := NewClassifier(dir)
	if got := c.Classify("купить участок"); got != Buyer {
		t.Fatalf("defaults not applied for broken map: got %s", got)
	}
}
