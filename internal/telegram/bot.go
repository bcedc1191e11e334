package telegram

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"usadba-bot/internal/docs"
	"usadba-bot/internal/session"
)

type Bot struct {
	api         *tgbotapi.BotAPI
	s           sender
	engine      *session.Engine
	docs        *docs.Service
	adminChatID int64
}

func New(botToken string, engine *session.Engine, docsSvc *docs.Service, adminChatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:         api,
		s:           botAPISender{api: api},
		engine:      engine,
		docs:        docsSvc,
		adminChatID: adminChatID,
	}, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message != nil {
				b.handleIncomingMessage(ctx, update.Message)
			}
		}
	}
}

// SendAdminReport delivers the daily usage report to the admin chat.
func (b *Bot) SendAdminReport(text string) error {
	if b.adminChatID == 0 {
		return nil
	}
	_, err := b.s.Send(tgbotapi.NewMessage(b.adminChatID, text))
	return err
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}

func (b *Bot) sendMessageWithKeyboard(chatID int64, text string, kb tgbotapi.ReplyKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}

func (b *Bot) sendDocument(chatID int64, path, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = caption
	doc.ReplyMarkup = b.docs.Keyboard()
	_, err := b.s.Send(doc)
	return err
}
