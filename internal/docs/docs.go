package docs

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Menu button texts. These are reserved: the transport routes them to
// the document flow, they never reach the chat path.
const (
	ButtonDocs           = "📄 Документы"
	ButtonAsk            = "💬 Задать вопрос"
	ButtonBusinessPlan   = "📝 Бизнес-план"
	ButtonFinancialModel = "📊 Финансовая модель"

	// AttachmentPrefix marks a per-document button.
	AttachmentPrefix = "📎 "
)

var businessPlanKeywords = []string{"бизнес", "business", "план", "plan"}
var financialModelKeywords = []string{"финанс", "financial", "модель", "model"}

// Service lists and locates deliverable documents in one directory.
type Service struct {
	dir          string
	allowedTypes []string
}

func NewService(dir string, allowedTypes []string) *Service {
	return &Service{dir: dir, allowedTypes: allowedTypes}
}

// Available returns the file names of non-empty documents with an
// allowed extension, de-duplicated by basename.
func (s *Service) Available() []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		log.Printf("documents dir unreadable: %v", err)
		return nil
	}

	var out []string
	seen := make(map[string]bool)
	for _, entry := range entries {
		if entry.IsDir() || !s.allowedExt(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.Size() == 0 {
			continue
		}
		name := baseName(entry.Name())
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, entry.Name())
	}
	return out
}

func (s *Service) allowedExt(filename string) bool {
	lower := strings.ToLower(filename)
	for _, ext := range s.allowedTypes {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Path returns the absolute location of a listed document.
func (s *Service) Path(filename string) string {
	return filepath.Join(s.dir, filename)
}

// Find locates a document by display name: exact basename match first,
// then substring.
func (s *Service) Find(name string) (string, bool) {
	name = strings.ToLower(name)
	available := s.Available()

	for _, f := range available {
		if name == strings.ToLower(baseName(f)) {
			return f, true
		}
	}
	for _, f := range available {
		if strings.Contains(strings.ToLower(baseName(f)), name) {
			return f, true
		}
	}
	return "", false
}

// FindBusinessPlan and FindFinancialModel locate the corresponding
// document by keyword, returning "" when absent.
func (s *Service) FindBusinessPlan() string   { return s.findByKeywords(businessPlanKeywords) }
func (s *Service) FindFinancialModel() string { return s.findByKeywords(financialModelKeywords) }

func (s *Service) findByKeywords(keywords []string) string {
	for _, f := range s.Available() {
		name := strings.ToLower(baseName(f))
		for _, kw := range keywords {
			if strings.Contains(name, kw) {
				return f
			}
		}
	}
	return ""
}

// MainKeyboard is the default reply keyboard.
func MainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(ButtonDocs),
			tgbotapi.NewKeyboardButton(ButtonAsk),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(ButtonBusinessPlan),
			tgbotapi.NewKeyboardButton(ButtonFinancialModel),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

// Keyboard lists up to eight documents as attachment buttons above the
// main menu rows.
func (s *Service) Keyboard() tgbotapi.ReplyKeyboardMarkup {
	available := s.Available()
	if len(available) > 8 {
		available = available[:8]
	}

	var rows [][]tgbotapi.KeyboardButton
	for _, f := range available {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(AttachmentPrefix+baseName(f)),
		))
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(ButtonDocs),
		tgbotapi.NewKeyboardButton(ButtonAsk),
	))
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(ButtonBusinessPlan),
		tgbotapi.NewKeyboardButton(ButtonFinancialModel),
	))

	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}

func baseName(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}
