package llm

import (
	"fmt"
	"strings"

	"usadba-bot/internal/config"
)

const (
	ProviderOpenAI = "openai"
	ProviderYandex = "yandex"
)

// NewClient builds the provider selected in the config.
func NewClient(cfg *config.Config) (Client, error) {
	switch strings.ToLower(string(cfg.LLMProvider)) {
	case ProviderOpenAI:
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.LLMTemperature, cfg.LLMMaxTokens), nil
	case ProviderYandex:
		return NewYandex(cfg.YandexOAuthToken, cfg.YandexFolderID)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLMProvider)
	}
}
