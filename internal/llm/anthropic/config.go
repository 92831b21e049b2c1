package anthropic

import "time"

// Config holds the Anthropic provider configuration.
type Config struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DefaultConfig returns sensible defaults for Anthropic. Model is only the
// fallback; personas pass their own model on every call.
func DefaultConfig() Config {
	return Config{
		Model:   "claude-sonnet-4-20250514",
		Timeout: 2 * time.Minute,
	}
}
