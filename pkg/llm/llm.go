// Package llm provides the provider-neutral types for text-completion
// integrations. Provider adapters live in internal/llm/{provider}/ and
// handlers depend only on the interfaces declared here.
package llm

import "context"

// Provider is the core interface implemented by every completion provider.
type Provider interface {
	// Chat creates a completion from a conversation history. The system
	// prompt travels separately (WithSystem) and is never part of messages.
	// Implementations make exactly one upstream call per invocation.
	Chat(ctx context.Context, messages []Message, opts ...CallOption) (*Response, error)
}

// HealthReporter is optionally implemented by providers that can report
// connection health and model availability. Detected via type assertion.
type HealthReporter interface {
	// Heartbeat checks whether the provider is reachable with the configured credentials.
	Heartbeat(ctx context.Context) error

	// ListModels returns the names of models available from this provider.
	ListModels(ctx context.Context) ([]string, error)
}

// CallOption configures a single Chat call.
type CallOption func(*CallConfig)

// CallConfig holds the resolved configuration for a single completion call.
// Users interact through CallOption functions, not this struct directly.
type CallConfig struct {
	System      string
	Model       string
	Temperature float64 // 0 leaves the provider default in place.
	MaxTokens   int
}

// WithSystem sets the system prompt for this call.
func WithSystem(system string) CallOption {
	return func(c *CallConfig) { c.System = system }
}

// WithModel sets the model to use for this call, overriding the provider default.
func WithModel(model string) CallOption {
	return func(c *CallConfig) { c.Model = model }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temp float64) CallOption {
	return func(c *CallConfig) { c.Temperature = temp }
}

// WithMaxTokens sets the maximum number of tokens to generate.
func WithMaxTokens(max int) CallOption {
	return func(c *CallConfig) { c.MaxTokens = max }
}

// ApplyOptions creates a CallConfig from a list of options, starting from defaults.
func ApplyOptions(opts ...CallOption) CallConfig {
	cfg := CallConfig{
		MaxTokens: 1024,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
