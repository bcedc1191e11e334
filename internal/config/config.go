package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type Config struct {
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN,required"`
	AdminChatID      int64  `env:"ADMIN_CHAT_ID"`

	// LLM settings
	LLMProvider      LLMProvider   `env:"LLM_PROVIDER" envDefault:"yandex"`
	OpenAIAPIKey     string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string        `env:"OPENAI_BASE_URL"`
	OpenAIModel      string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	YandexOAuthToken string        `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string        `env:"YANDEX_FOLDER_ID"`
	LLMTemperature   float32       `env:"LLM_TEMPERATURE" envDefault:"0.3"`
	LLMMaxTokens     int           `env:"LLM_MAX_TOKENS" envDefault:"1000"`
	RequestTimeout   time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`

	// Storage
	DocumentsDir string `env:"DOCUMENTS_DIR" envDefault:"data/documents"`
	HistoryDir   string `env:"HISTORY_DIR" envDefault:"data/history"`
	CacheFile    string `env:"CACHE_FILE" envDefault:"data/cache.json"`
	PromptsDir   string `env:"PROMPTS_DIR" envDefault:"prompts"`
	EventLogPath string `env:"EVENT_LOG_PATH" envDefault:"data/events.jsonl"`

	// Session tuning
	MaxHistoryPairs int  `env:"MAX_HISTORY_PAIRS" envDefault:"10"`
	MaxCacheSize    int  `env:"MAX_CACHE_SIZE" envDefault:"1000"`
	UseCache        bool `env:"USE_CACHE" envDefault:"true"`

	AllowedDocumentTypes []string `env:"ALLOWED_DOCUMENT_TYPES" envSeparator:":" envDefault:".pdf:.txt:.docx:.xlsx:.pptx:.jpg:.png"`
}

func New() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.ensureDirectories(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) ensureDirectories() error {
	for _, dir := range []string{c.DocumentsDir, c.HistoryDir, c.PromptsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to ensure dir %s: %w", dir, err)
		}
	}
	return nil
}
