package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"usadba-bot/internal/cache"
	"usadba-bot/internal/history"
	"usadba-bot/internal/intent"
	"usadba-bot/internal/llm"
	"usadba-bot/internal/prompts"
	"usadba-bot/internal/storage"
)

// Reset phrases are matched exactly, case-insensitive.
var resetPhrases = map[string]bool{
	"сменить контекст": true,
	"другой вопрос":    true,
	"новый вопрос":     true,
}

const (
	ReplyReset = "Контекст сброшен. Выберите действие:"

	replyConnectionFailed = "Не удалось подключиться к ИИ. Проверьте интернет."
	replyAuthFailed       = "Ошибка: неверный API-ключ. Проверьте настройки доступа."
	replyRateLimited      = "Слишком много запросов. Попробуйте позже."
	replyGenericError     = "Извините, произошла ошибка при генерации ответа."
)

// Turn is the outcome of processing one inbound message. Notice, when
// non-empty, is the one-time intent confirmation sent before the reply.
type Turn struct {
	Notice string
	Reply  string
	Reset  bool
}

// conversation holds the in-memory state of one chat. Its mutex
// serializes concurrent turns for the same conversation id; different
// conversations never contend.
type conversation struct {
	mu              sync.Mutex
	history         []llm.Message
	hydrated        bool
	selectedIntent  intent.Category
	intentConfirmed bool
}

// Engine is the turn orchestrator: reset check, intent classification,
// first-contact notice, history hydration, system-prompt refresh, cache
// consult, model call, trim, and fire-and-forget persistence.
type Engine struct {
	classifier *intent.Classifier
	prompts    *prompts.Resolver
	store      *history.Store
	cache      *cache.FileCache
	client     llm.Client
	recorder   storage.Recorder

	maxPairs int
	timeout  time.Duration
	useCache bool

	mu       sync.Mutex
	sessions map[int64]*conversation
}

type Options struct {
	MaxHistoryPairs int
	RequestTimeout  time.Duration
	UseCache        bool
}

func NewEngine(
	classifier *intent.Classifier,
	resolver *prompts.Resolver,
	store *history.Store,
	respCache *cache.FileCache,
	client llm.Client,
	recorder storage.Recorder,
	opts Options,
) *Engine {
	return &Engine{
		classifier: classifier,
		prompts:    resolver,
		store:      store,
		cache:      respCache,
		client:     client,
		recorder:   recorder,
		maxPairs:   opts.MaxHistoryPairs,
		timeout:    opts.RequestTimeout,
		useCache:   opts.UseCache,
		sessions:   make(map[int64]*conversation),
	}
}

func (e *Engine) conversation(chatID int64) *conversation {
	e.mu.Lock()
	defer e.mu.Unlock()
	conv, ok := e.sessions[chatID]
	if !ok {
		conv = &conversation{}
		e.sessions[chatID] = conv
	}
	return conv
}

// Process runs one turn. The returned error is reserved for fatal
// configuration problems (missing general prompt); every other failure
// resolves to a user-facing reply.
func (e *Engine) Process(ctx context.Context, chatID int64, text string) (Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Turn{}, nil
	}

	conv := e.conversation(chatID)
	conv.mu.Lock()
	defer conv.mu.Unlock()

	if resetPhrases[strings.ToLower(text)] {
		conv.history = nil
		conv.hydrated = true
		conv.selectedIntent = ""
		conv.intentConfirmed = false
		e.store.Delete(chatID)
		return Turn{Reply: ReplyReset, Reset: true}, nil
	}

	cat := e.classifier.Classify(text)
	conv.selectedIntent = cat

	var notice string
	if !conv.intentConfirmed {
		notice = fmt.Sprintf(
			"Я понял, что вас интересует: %s.\nЗадавайте ваш вопрос! Если хотите сменить тему, напишите «Сменить контекст».",
			intentLabel(cat),
		)
		conv.intentConfirmed = true
	}

	if !conv.hydrated {
		conv.history = e.store.Load(chatID)
		conv.hydrated = true
	}

	sysPrompt, err := e.prompts.Resolve(cat)
	if err != nil {
		return Turn{Notice: notice, Reply: replyGenericError}, fmt.Errorf("resolve prompt: %w", err)
	}

	// Refresh the system message every turn so an intent change updates
	// future model context without rewriting prior turns.
	if len(conv.history) > 0 && conv.history[0].Role == "system" {
		conv.history[0].Content = sysPrompt
	} else {
		conv.history = append([]llm.Message{{Role: "system", Content: sysPrompt}}, conv.history...)
	}

	var key string
	var hasKey bool
	if e.useCache {
		key, hasKey = cache.DeriveKey(text, conv.history)
		if hasKey {
			if cached, ok := e.cache.Get(key); ok {
				conv.history = append(conv.history,
					llm.Message{Role: "user", Content: text},
					llm.Message{Role: "assistant", Content: cached},
				)
				e.persistAsync(chatID, conv.history)
				e.record(chatID, cat, text, cached, true)
				return Turn{Notice: notice, Reply: cached}, nil
			}
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	msgs := make([]llm.Message, 0, len(conv.history)+1)
	msgs = append(msgs, conv.history...)
	msgs = append(msgs, llm.Message{Role: "user", Content: text})

	resp, err := e.client.Generate(reqCtx, msgs)
	if err != nil {
		log.Printf("llm request failed for chat %d: %v", chatID, err)
		return Turn{Notice: notice, Reply: replyForError(err)}, nil
	}

	conv.history = append(conv.history,
		llm.Message{Role: "user", Content: text},
		llm.Message{Role: "assistant", Content: resp.Content},
	)
	conv.history = trim(conv.history, e.maxPairs)

	e.persistAsync(chatID, conv.history)
	if hasKey {
		response := resp.Content
		go e.cache.Set(key, response)
	}
	e.record(chatID, cat, text, resp.Content, false)

	return Turn{Notice: notice, Reply: resp.Content}, nil
}

// Intent returns the last classified intent for the conversation.
func (e *Engine) Intent(chatID int64) intent.Category {
	conv := e.conversation(chatID)
	conv.mu.Lock()
	defer conv.mu.Unlock()
	return conv.selectedIntent
}

func intentLabel(cat intent.Category) string {
	if label, ok := intent.Labels[cat]; ok {
		return label
	}
	return string(cat)
}

// persistAsync saves a snapshot of the history without blocking the
// turn. Durability is at-most-eventual: the reply can outrun the write.
func (e *Engine) persistAsync(chatID int64, msgs []llm.Message) {
	snapshot := make([]llm.Message, len(msgs))
	copy(snapshot, msgs)
	go e.store.Save(chatID, snapshot)
}

func (e *Engine) record(chatID int64, cat intent.Category, userMsg, response string, fromCache bool) {
	if e.recorder == nil {
		return
	}
	ev := storage.Event{
		Timestamp:         time.Now().UTC(),
		ChatID:            chatID,
		Intent:            string(cat),
		UserMessage:       userMsg,
		AssistantResponse: response,
		FromCache:         fromCache,
	}
	go func() {
		if err := e.recorder.AppendInteraction(ev); err != nil {
			log.Printf("failed to record interaction: %v", err)
		}
	}()
}

// trim bounds the history to the system message plus the most recent
// maxPairs user/assistant pairs. Older pairs are gone from active
// history permanently.
func trim(msgs []llm.Message, maxPairs int) []llm.Message {
	maxLen := maxPairs*2 + 1
	if len(msgs) <= maxLen {
		return msgs
	}
	out := make([]llm.Message, 0, maxLen)
	var rest []llm.Message
	for _, m := range msgs {
		if m.Role == "system" {
			if len(out) == 0 {
				out = append(out, m)
			}
			continue
		}
		rest = append(rest, m)
	}
	if len(rest) > maxLen-1 {
		rest = rest[len(rest)-(maxLen-1):]
	}
	return append(out, rest...)
}

func replyForError(err error) string {
	switch {
	case errors.Is(err, llm.ErrConnection):
		return replyConnectionFailed
	case errors.Is(err, llm.ErrAuth):
		return replyAuthFailed
	case errors.Is(err, llm.ErrRateLimit):
		return replyRateLimited
	default:
		return replyGenericError
	}
}
