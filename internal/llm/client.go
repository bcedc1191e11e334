package llm

import "context"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Client is implemented by every model provider. Generate receives the
// full message context (system prompt first, then the conversation
// ending with the newest user message) and returns the assistant reply.
type Client interface {
	Generate(ctx context.Context, messages []Message) (Response, error)
}
