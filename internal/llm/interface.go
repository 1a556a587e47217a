package llm

import "context"

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Provider is a chat-completion backend. Implementations wrap a vendor
// SDK and normalize its request/response shapes.
type Provider interface {
	Name() string
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// ChatRequest is a vendor-neutral chat completion request. JSONMode
// asks the provider to constrain output to a JSON object where the
// vendor API supports it.
type ChatRequest struct {
	SystemPrompt string
	Messages     []Message
	MaxTokens    int
	Temperature  float64
	JSONMode     bool
}

// Message is a single turn in the conversation.
type Message struct {
	Role    string
	Content string
}

// ChatResponse carries the completion text plus vendor metadata.
type ChatResponse struct {
	Content      string
	Usage        Usage
	FinishReason string
}

// Usage reports token counts for cost tracking.
type Usage struct {
	InputTokens  int
	OutputTokens int
}
