// Package llm provides remote-model implementations of the prediction
// engine: provider clients for Anthropic Claude and Google Gemini behind the
// LLMService interface, and a parser that maps chat completions onto the
// structured output contract.
package llm

import (
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/auspex/internal/common"
	"github.com/ternarybob/auspex/internal/interfaces"
)

// NewService creates the configured provider client. Selection follows
// [llm] default_provider; when unset it is inferred from the model-name
// prefix.
func NewService(cfg *common.Config, logger arbor.ILogger) (interfaces.LLMService, error) {
	provider := cfg.LLM.DefaultProvider
	if provider == "" {
		switch {
		case strings.HasPrefix(cfg.Claude.Model, "claude-"):
			provider = common.LLMProviderClaude
		case strings.HasPrefix(cfg.Gemini.Model, "gemini-"):
			provider = common.LLMProviderGemini
		}
	}

	logger.Info().Str("provider", provider).Msg("Initializing LLM service")

	switch provider {
	case common.LLMProviderClaude:
		return NewClaudeService(&cfg.Claude, logger)
	case common.LLMProviderGemini:
		return NewGeminiService(&cfg.Gemini, logger)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", provider)
	}
}
