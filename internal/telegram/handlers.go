package telegram

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"usadba-bot/internal/docs"
)

const welcomeText = "🏡 Добро пожаловать в проект «Усадьба»!\n\n" +
	"Я — ваш цифровой помощник. Могу:\n" +
	"• 📎 Прислать презентацию, бизнес-план и другие документы\n" +
	"• 💬 Ответить на вопросы о проекте\n" +
	"• 📊 Показать финансовую модель\n\n" +
	"Выберите действие:"

const unsupportedText = "Извините, я пока могу обрабатывать только текстовые сообщения. " +
	"Попробуйте отправить текстовый запрос или воспользуйтесь кнопками меню."

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		b.handleCommand(msg)
		return
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		b.sendMessage(msg.Chat.ID, unsupportedText)
		return
	}

	// Reserved menu texts belong to the document flow and must never
	// reach the chat path.
	if b.routeMenu(msg.Chat.ID, text) {
		return
	}

	b.handleChat(ctx, msg.Chat.ID, text)
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.sendMessageWithKeyboard(msg.Chat.ID, welcomeText, docs.MainKeyboard())
	case "docs":
		b.listDocuments(msg.Chat.ID)
	default:
		b.sendMessageWithKeyboard(msg.Chat.ID, "Неизвестная команда. Выберите действие:", docs.MainKeyboard())
	}
}

// routeMenu handles the reserved button texts, with and without the
// emoji prefix. It reports whether the text was consumed.
func (b *Bot) routeMenu(chatID int64, text string) bool {
	switch text {
	case docs.ButtonDocs, "Документы":
		b.listDocuments(chatID)
	case docs.ButtonBusinessPlan, "Бизнес-план":
		b.sendNamedDocument(chatID, b.docs.FindBusinessPlan(), "📘 Бизнес-план проекта", "❌ Бизнес-план временно недоступен.")
	case docs.ButtonFinancialModel, "Финансовая модель":
		b.sendNamedDocument(chatID, b.docs.FindFinancialModel(), "📊 Финансовая модель", "❌ Финансовая модель временно недоступна.")
	case docs.ButtonAsk, "Задать вопрос":
		b.sendMessageWithKeyboard(chatID, "💬 Задайте любой вопрос о проекте!", docs.MainKeyboard())
	default:
		if name, ok := strings.CutPrefix(text, docs.AttachmentPrefix); ok {
			b.sendDocumentByName(chatID, name)
			return true
		}
		return false
	}
	return true
}

func (b *Bot) handleChat(ctx context.Context, chatID int64, text string) {
	turn, err := b.engine.Process(ctx, chatID, text)
	if err != nil {
		log.Printf("turn failed for chat %d: %v", chatID, err)
	}
	if turn.Notice != "" {
		b.sendMessage(chatID, turn.Notice)
	}
	if turn.Reply == "" {
		return
	}
	if turn.Reset {
		b.sendMessageWithKeyboard(chatID, turn.Reply, docs.MainKeyboard())
		return
	}
	b.sendMessage(chatID, turn.Reply)
}

func (b *Bot) listDocuments(chatID int64) {
	available := b.docs.Available()
	if len(available) == 0 {
		b.sendMessageWithKeyboard(chatID, "📂 Нет доступных документов.", docs.MainKeyboard())
		return
	}

	var sb strings.Builder
	sb.WriteString("📂 Доступные документы:\n")
	for _, f := range available {
		sb.WriteString(fmt.Sprintf("• %s\n", strings.TrimSuffix(f, filepath.Ext(f))))
	}
	b.sendMessageWithKeyboard(chatID, sb.String(), b.docs.Keyboard())
}

func (b *Bot) sendNamedDocument(chatID int64, filename, caption, missingText string) {
	if filename == "" {
		b.sendMessageWithKeyboard(chatID, missingText, b.docs.Keyboard())
		return
	}
	if err := b.sendDocument(chatID, b.docs.Path(filename), caption); err != nil {
		log.Printf("failed to send document %s: %v", filename, err)
		b.sendMessageWithKeyboard(chatID, "❌ Ошибка при отправке документа.", b.docs.Keyboard())
	}
}

func (b *Bot) sendDocumentByName(chatID int64, name string) {
	filename, ok := b.docs.Find(name)
	if !ok {
		b.sendMessageWithKeyboard(chatID, fmt.Sprintf("❌ Документ «%s» не найден.", name), b.docs.Keyboard())
		return
	}
	caption := docs.AttachmentPrefix + strings.TrimSuffix(filename, filepath.Ext(filename))
	if err := b.sendDocument(chatID, b.docs.Path(filename), caption); err != nil {
		log.Printf("failed to send document %s: %v", filename, err)
		b.sendMessageWithKeyboard(chatID, "❌ Ошибка при отправке документа.", b.docs.Keyboard())
	}
}
