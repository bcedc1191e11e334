package intent

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type Category string

const (
	Buyer    Category = "buyer"
	Investor Category = "investor"
	Partner  Category = "partner"
	General  Category = "general"
)

// priority fixes the tie-break: the first category in this order with
// the maximum keyword score wins. Map iteration order must never leak
// into classification results.
var priority = []Category{Buyer, Investor, Partner, General}

// Labels are the human-readable names shown in the first-contact notice.
var Labels = map[Category]string{
	Buyer:    "🏡 Участок для жизни",
	Investor: "💼 Инвестиции",
	Partner:  "🤝 Партнёрство",
	General:  "ℹ️ О проекте",
}

var defaultKeywords = map[Category][]string{
	Buyer:    {"купить", "участок", "земля", "дом", "цена", "стоимость", "покупка"},
	Investor: {"инвест", "доход", "прибыль", "рентабельность", "окупаемость", "вложение"},
	Partner:  {"партнёр", "сотрудничество", "совместный", "предложение", "коллаборация"},
	General:  {"что", "расскажи", "проект", "информация", "подробнее", "общее"},
}

type Classifier struct {
	keywords map[Category][]string
	order    []Category
}

// NewClassifier loads the keyword map from <promptsDir>/prompt_map.json
// when present, otherwise falls back to the built-in defaults. A broken
// map file is logged and ignored.
func NewClassifier(promptsDir string) *Classifier {
	kw := loadKeywordMap(promptsDir)
	return &Classifier{keywords: kw, order: scoringOrder(kw)}
}

// scoringOrder puts the known categories first in their fixed priority,
// then any extra configured categories sorted by name, so a map file
// with custom intents still classifies deterministically.
func scoringOrder(kw map[Category][]string) []Category {
	seen := make(map[Category]bool, len(kw))
	var order []Category
	for _, cat := range priority {
		if _, ok := kw[cat]; ok {
			order = append(order, cat)
			seen[cat] = true
		}
	}
	var extra []Category
	for cat := range kw {
		if !seen[cat] {
			extra = append(extra, cat)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(order, extra...)
}

func loadKeywordMap(promptsDir string) map[Category][]string {
	path := filepath.Join(promptsDir, "prompt_map.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("failed to read keyword map %s: %v", path, err)
		}
		return defaultKeywords
	}
	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Printf("failed to parse keyword map %s: %v", path, err)
		return defaultKeywords
	}
	kw := make(map[Category][]string, len(raw))
	for name, words := range raw {
		kw[Category(name)] = words
	}
	return kw
}

// Classify scores each category by the number of its keywords occurring
// as substrings of the lowercased message and returns the best match.
// Empty input and all-zero scores resolve to General. Never fails.
func (c *Classifier) Classify(text string) Category {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return General
	}

	best := General
	bestScore := 0
	for _, cat := range c.order {
		score := 0
		for _, kw := range c.keywords[cat] {
			if strings.Contains(text, kw) {
				score++
			}
		}
		if score > bestScore {
			best = cat
			bestScore = score
		}
	}
	return best
}
