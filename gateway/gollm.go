package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/teilomillet/gollm"
)

// GollmGateway implements Gateway on top of the gollm library. One
// construction covers both remote APIs (openai, anthropic) and local
// inference engines (ollama); the reasoning loop cannot tell them apart.
type GollmGateway struct {
	provider string
	model    string
	llm      gollm.LLM
}

// GollmOption configures a GollmGateway.
type GollmOption func(*gollmConfig)

type gollmConfig struct {
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	extraOpts   []gollm.ConfigOption
}

// WithAPIKey sets the API key. When empty, gollm reads it from the
// provider's environment variable.
func WithAPIKey(key string) GollmOption {
	return func(c *gollmConfig) {
		c.apiKey = key
	}
}

// WithModel overrides the provider's default model.
func WithModel(model string) GollmOption {
	return func(c *gollmConfig) {
		c.model = model
	}
}

// WithMaxTokens sets the completion token budget per step.
func WithMaxTokens(n int) GollmOption {
	return func(c *gollmConfig) {
		c.maxTokens = n
	}
}

// WithTemperature sets the sampling temperature. The default is 0: reasoning
// steps must follow a strict text format, and low temperature keeps the
// model on it.
func WithTemperature(t float64) GollmOption {
	return func(c *gollmConfig) {
		c.temperature = t
	}
}

// WithGollmOptions appends extra gollm configuration options.
func WithGollmOptions(opts ...gollm.ConfigOption) GollmOption {
	return func(c *gollmConfig) {
		c.extraOpts = append(c.extraOpts, opts...)
	}
}

// NewGollmGateway creates a gateway for the given provider ("openai",
// "anthropic", "ollama", ...). The model defaults to the provider's first
// catalog entry.
func NewGollmGateway(provider string, opts ...GollmOption) (*GollmGateway, error) {
	cfg := &gollmConfig{
		maxTokens:   1024,
		temperature: 0,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	model := cfg.model
	if model == "" {
		info := DefaultModel(provider)
		if info == nil {
			return nil, &InvalidRequestError{GatewayError{
				Provider: provider,
				Message:  fmt.Sprintf("no default model known for provider %q; use WithModel", provider),
			}}
		}
		model = info.ID
	}

	gollmOpts := []gollm.ConfigOption{
		gollm.SetProvider(provider),
		gollm.SetModel(model),
		gollm.SetMaxTokens(cfg.maxTokens),
		gollm.SetTemperature(cfg.temperature),
		gollm.SetMaxRetries(0), // retries belong to Retry at this boundary
		gollm.SetLogLevel(gollm.LogLevelWarn),
	}
	if cfg.apiKey != "" {
		gollmOpts = append(gollmOpts, gollm.SetAPIKey(cfg.apiKey))
	}
	gollmOpts = append(gollmOpts, cfg.extraOpts...)

	llm, err := gollm.NewLLM(gollmOpts...)
	if err != nil {
		return nil, &GatewayError{
			Provider: provider,
			Message:  "creating gollm client",
			Cause:    err,
		}
	}

	return &GollmGateway{
		provider: provider,
		model:    model,
		llm:      llm,
	}, nil
}

// Provider returns the provider identifier.
func (g *GollmGateway) Provider() string { return g.provider }

// Model returns the model identifier in use.
func (g *GollmGateway) Model() string { return g.model }

// ContextWindow returns the model's context window from the catalog, or 0
// when the model is unknown.
func (g *GollmGateway) ContextWindow() int {
	if info := GetModelInfo(g.model); info != nil {
		return info.ContextWindow
	}
	return 0
}

// Complete renders the conversation into a gollm prompt and returns the
// model's completion text.
func (g *GollmGateway) Complete(ctx context.Context, messages []Message) (string, error) {
	prompt, err := buildPrompt(g.provider, messages)
	if err != nil {
		return "", err
	}

	text, err := g.llm.Generate(ctx, prompt)
	if err != nil {
		return "", translateError(g.provider, err)
	}
	return text, nil
}

// buildPrompt flattens role-tagged messages into gollm's prompt shape:
// system messages become the system prompt, everything else becomes the
// transcript. Tool messages render as Observation lines, matching the step
// format the reasoning loop teaches the model.
func buildPrompt(provider string, messages []Message) (*gollm.Prompt, error) {
	var systemParts []string
	var transcript []string

	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			systemParts = append(systemParts, msg.Content)
		case RoleUser:
			transcript = append(transcript, msg.Content)
		case RoleAssistant:
			if msg.Content != "" {
				transcript = append(transcript, msg.Content)
			}
		case RoleTool:
			transcript = append(transcript, "Observation: "+msg.Content)
		}
	}

	promptText := strings.Join(transcript, "\n")
	if promptText == "" {
		return nil, &InvalidRequestError{GatewayError{
			Provider: provider,
			Message:  "conversation has no user, assistant, or tool messages",
		}}
	}

	promptOpts := []gollm.PromptOption{}
	if len(systemParts) > 0 {
		systemPrompt := strings.TrimSpace(strings.Join(systemParts, "\n"))
		promptOpts = append(promptOpts, gollm.WithSystemPrompt(systemPrompt, gollm.CacheTypeEphemeral))
	}

	return gollm.NewPrompt(promptText, promptOpts...), nil
}

// translateError converts a gollm error into the gateway error taxonomy by
// classifying its message. gollm does not expose typed errors, so string
// matching is the only signal available.
func translateError(provider string, err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	base := GatewayError{Provider: provider, Message: msg, Cause: err}

	msgLower := strings.ToLower(msg)
	switch {
	case strings.Contains(msgLower, "401") || strings.Contains(msgLower, "unauthorized") ||
		strings.Contains(msgLower, "invalid key") || strings.Contains(msgLower, "invalid api key"):
		return &AuthenticationError{base}
	case strings.Contains(msgLower, "429") || strings.Contains(msgLower, "rate limit") ||
		strings.Contains(msgLower, "too many requests"):
		return &RateLimitError{GatewayError: base}
	case strings.Contains(msgLower, "400") || strings.Contains(msgLower, "invalid request") ||
		strings.Contains(msgLower, "context length") || strings.Contains(msgLower, "too many tokens"):
		return &InvalidRequestError{base}
	default:
		// Connection refusals, timeouts, 5xx and anything unclassified count
		// as backend unavailability and stay retryable.
		return &UnavailableError{base}
	}
}
