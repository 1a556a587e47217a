// internal/llm/claude/claude.go
package claude

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/dkoval/chronos/internal/core"
	"github.com/dkoval/chronos/internal/llm"
)

const defaultModel = "claude-sonnet-4-20250514"

// Provider adapts the Anthropic Messages API to llm.Provider.
type Provider struct {
	client anthropic.Client
	model  string
}

// New returns a Claude-backed provider. An empty model falls back to
// the default.
func New(apiKey, model string) (*Provider, error) {
	if apiKey == "" {
		return nil, errors.New("claude API key required")
	}
	if model == "" {
		model = defaultModel
	}
	return &Provider{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

func (p *Provider) Name() string { return "claude" }

// Chat sends the conversation to the Messages API. The Anthropic API
// takes the system prompt as a top-level parameter rather than a
// message, and has no JSON response mode; callers relying on JSONMode
// must instruct the model through the prompt.
func (p *Provider) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: maxTokens(req.MaxTokens),
		Messages:  toMessageParams(req.Messages),
	}
	if req.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.SystemPrompt}}
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, core.WrapError(core.ErrLLMFailed, fmt.Errorf("claude API error: %w", err))
	}

	return &llm.ChatResponse{
		Content: firstTextBlock(resp),
		Usage: llm.Usage{
			InputTokens:  int(resp.Usage.InputTokens),
			OutputTokens: int(resp.Usage.OutputTokens),
		},
		FinishReason: string(resp.StopReason),
	}, nil
}

func maxTokens(requested int) int64 {
	if requested <= 0 {
		return 1024
	}
	return int64(requested)
}

func toMessageParams(msgs []llm.Message) []anthropic.MessageParam {
	params := make([]anthropic.MessageParam, len(msgs))
	for i, m := range msgs {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == llm.RoleAssistant {
			params[i] = anthropic.NewAssistantMessage(block)
		} else {
			params[i] = anthropic.NewUserMessage(block)
		}
	}
	return params
}

func firstTextBlock(resp *anthropic.Message) string {
	for _, block := range resp.Content {
		if block.Type == "text" {
			return block.Text
		}
	}
	return ""
}
