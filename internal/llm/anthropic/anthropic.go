// Package anthropic implements llm.Provider on top of the Anthropic Messages
// API using the official Go SDK.
package anthropic

import (
	"context"
	"fmt"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/leadballoon/villacare/pkg/llm"
)

// Compile-time interface guards.
var (
	_ llm.Provider       = (*Provider)(nil)
	_ llm.HealthReporter = (*Provider)(nil)
)

// Provider implements llm.Provider for Anthropic. It is built once at start-up
// and is safe for concurrent use.
type Provider struct {
	client sdk.Client
	cfg    Config
	logger *zap.Logger
}

// New creates an Anthropic provider. SDK-level retries are disabled: every
// Chat call is exactly one upstream request.
func New(cfg Config, logger *zap.Logger) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: api key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Provider{
		client: sdk.NewClient(opts...),
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Chat creates a completion from a conversation history. Messages are
// forwarded in order with their role and content untouched; the system
// prompt goes in the dedicated system field.
func (p *Provider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.CallOption) (*llm.Response, error) {
	cfg := llm.ApplyOptions(opts...)

	model := cfg.Model
	if model == "" {
		model = p.cfg.Model
	}

	params := sdk.MessageNewParams{
		Model:     sdk.Model(model),
		MaxTokens: int64(cfg.MaxTokens),
		Messages:  toMessageParams(messages),
	}
	if cfg.System != "" {
		params.System = []sdk.TextBlockParam{{Text: cfg.System}}
	}
	if cfg.Temperature > 0 {
		params.Temperature = sdk.Float(cfg.Temperature)
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, mapError(err)
	}

	p.logger.Debug("anthropic completion",
		zap.String("model", string(msg.Model)),
		zap.Int64("input_tokens", msg.Usage.InputTokens),
		zap.Int64("output_tokens", msg.Usage.OutputTokens),
		zap.String("stop_reason", string(msg.StopReason)),
	)

	return &llm.Response{
		Content: firstText(msg.Content),
		Model:   string(msg.Model),
		Usage: llm.Usage{
			PromptTokens:     int(msg.Usage.InputTokens),
			CompletionTokens: int(msg.Usage.OutputTokens),
			TotalTokens:      int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		},
		Done: msg.StopReason != sdk.StopReasonMaxTokens,
	}, nil
}

// Heartbeat checks whether the Anthropic API accepts the configured key by listing models.
func (p *Provider) Heartbeat(ctx context.Context) error {
	if _, err := p.client.Models.List(ctx, sdk.ModelListParams{}); err != nil {
		return mapError(err)
	}
	return nil
}

// ListModels returns the model IDs visible to the configured key (first page).
func (p *Provider) ListModels(ctx context.Context) ([]string, error) {
	page, err := p.client.Models.List(ctx, sdk.ModelListParams{})
	if err != nil {
		return nil, mapError(err)
	}
	ids := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

func toMessageParams(messages []llm.Message) []sdk.MessageParam {
	out := make([]sdk.MessageParam, len(messages))
	for i, m := range messages {
		out[i] = sdk.MessageParam{
			Role:    sdk.MessageParamRole(m.Role),
			Content: []sdk.ContentBlockParamUnion{sdk.NewTextBlock(m.Content)},
		}
	}
	return out
}

// firstText returns the text of the first "text" block, or "" when the
// response carries none.
func firstText(blocks []sdk.ContentBlockUnion) string {
	for _, b := range blocks {
		if b.Type == "text" {
			return b.Text
		}
	}
	return ""
}
