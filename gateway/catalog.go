package gateway

// ModelInfo describes a known model in the catalog.
type ModelInfo struct {
	ID            string   `json:"id"`
	Provider      string   `json:"provider"`
	DisplayName   string   `json:"display_name"`
	ContextWindow int      `json:"context_window"`
	Aliases       []string `json:"aliases,omitempty"`
}

// Models is the built-in model catalog (August 2026). Entries are ordered
// newest/best first within each provider; DefaultModel relies on this.
// The ollama entries cover local inference engines.
var Models = []ModelInfo{
	// Anthropic
	{
		ID: "claude-opus-4-6", Provider: "anthropic", DisplayName: "Claude Opus 4.6",
		ContextWindow: 200000,
		Aliases:       []string{"opus", "claude-opus"},
	},
	{
		ID: "claude-sonnet-4-5", Provider: "anthropic", DisplayName: "Claude Sonnet 4.5",
		ContextWindow: 200000,
		Aliases:       []string{"sonnet", "claude-sonnet"},
	},

	// OpenAI
	{
		ID: "gpt-5.2", Provider: "openai", DisplayName: "GPT-5.2",
		ContextWindow: 1047576,
		Aliases:       []string{"gpt5"},
	},
	{
		ID: "gpt-5.2-mini", Provider: "openai", DisplayName: "GPT-5.2 Mini",
		ContextWindow: 1047576,
		Aliases:       []string{"gpt5-mini"},
	},

	// Ollama (local engines)
	{
		ID: "llama3.3", Provider: "ollama", DisplayName: "Llama 3.3",
		ContextWindow: 131072,
		Aliases:       []string{"llama3"},
	},
	{
		ID: "qwen2.5", Provider: "ollama", DisplayName: "Qwen 2.5",
		ContextWindow: 32768,
	},
	{
		ID: "mistral", Provider: "ollama", DisplayName: "Mistral 7B",
		ContextWindow: 32768,
	},
}

// GetModelInfo returns the catalog entry for a model ID or alias, or nil if
// unknown.
func GetModelInfo(modelID string) *ModelInfo {
	for i := range Models {
		if Models[i].ID == modelID {
			return &Models[i]
		}
		for _, alias := range Models[i].Aliases {
			if alias == modelID {
				return &Models[i]
			}
		}
	}
	return nil
}

// ListModels returns all known models, optionally filtered by provider.
func ListModels(provider string) []ModelInfo {
	if provider == "" {
		result := make([]ModelInfo, len(Models))
		copy(result, Models)
		return result
	}
	var result []ModelInfo
	for _, m := range Models {
		if m.Provider == provider {
			result = append(result, m)
		}
	}
	return result
}

// DefaultModel returns the first (newest/best) model for a provider, or nil
// if the provider has no catalog entries.
func DefaultModel(provider string) *ModelInfo {
	for i := range Models {
		if Models[i].Provider == provider {
			return &Models[i]
		}
	}
	return nil
}
