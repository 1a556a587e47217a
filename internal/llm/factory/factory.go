// internal/llm/factory/factory.go
package factory

import (
	"fmt"

	"github.com/dkoval/chronos/internal/config"
	"github.com/dkoval/chronos/internal/core"
	"github.com/dkoval/chronos/internal/llm"
	"github.com/dkoval/chronos/internal/llm/claude"
	"github.com/dkoval/chronos/internal/llm/openai"
)

// New builds the configured LLM provider. The provider name selects
// the vendor; per-vendor settings come from the matching config block.
func New(cfg config.LLMConfig) (llm.Provider, error) {
	switch cfg.Provider {
	case "claude":
		return claude.New(cfg.Claude.APIKey, cfg.Claude.Model)
	case "openai":
		return openai.New(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	default:
		return nil, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown LLM provider %q", cfg.Provider))
	}
}
