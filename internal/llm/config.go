// Package llm provides the language-model clients used to draft salary reports.
// Every client reports failures as *ProviderError so callers can fall back uniformly.
package llm

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderAnthropic is the Anthropic/Claude provider
	ProviderAnthropic Provider = "anthropic"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// Defaults for the Anthropic provider.
const (
	DefaultAnthropicModel = "claude-3-haiku-20240307"
	DefaultGeminiModel    = "gemini-2.5-flash"
	DefaultMaxTokens      = 2000
)

// Config holds provider selection and credentials. An empty APIKey means the
// provider is not configured and NewClient returns an UnavailableClient.
type Config struct {
	Provider  Provider
	APIKey    string
	Model     string
	MaxTokens int
	// BaseURL overrides the provider endpoint. Used against fake servers in tests.
	BaseURL string
}

// DefaultConfig returns the default configuration (Anthropic, as the web client used).
func DefaultConfig() *Config {
	return &Config{
		Provider:  ProviderAnthropic,
		Model:     DefaultAnthropicModel,
		MaxTokens: DefaultMaxTokens,
	}
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider:  ProviderGemini,
		Model:     DefaultGeminiModel,
		MaxTokens: DefaultMaxTokens,
	}
}

// ModelName returns the configured model, or the provider's default.
func (c *Config) ModelName() string {
	if c.Model != "" {
		return c.Model
	}
	if c.Provider == ProviderGemini {
		return DefaultGeminiModel
	}
	return DefaultAnthropicModel
}

// TokenLimit returns the configured max tokens, or DefaultMaxTokens.
func (c *Config) TokenLimit() int {
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return DefaultMaxTokens
}

// WithAPIKey returns a copy of the config using apiKey.
func (c *Config) WithAPIKey(apiKey string) *Config {
	newConfig := *c
	newConfig.APIKey = apiKey
	return &newConfig
}
