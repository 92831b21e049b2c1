// Package llmtest provides test doubles for llm.Provider. Handlers and
// services that depend on a provider should be tested against Fake rather
// than a live service.
package llmtest

import (
	"context"
	"sync"

	"github.com/leadballoon/villacare/pkg/llm"
)

// Compile-time interface guard.
var _ llm.Provider = (*Fake)(nil)

// Call records one invocation of Fake.Chat.
type Call struct {
	Messages []llm.Message
	Config   llm.CallConfig
}

// Fake is a recording llm.Provider. Every Chat call is recorded, then
// answered by Func when set, otherwise by Reply/Err.
type Fake struct {
	Reply string
	Err   error
	Func  func(ctx context.Context, messages []llm.Message, cfg llm.CallConfig) (*llm.Response, error)

	mu    sync.Mutex
	calls []Call
}

// NewFake returns a Fake that answers every call with reply.
func NewFake(reply string) *Fake {
	return &Fake{Reply: reply}
}

// Chat implements llm.Provider.
func (f *Fake) Chat(ctx context.Context, messages []llm.Message, opts ...llm.CallOption) (*llm.Response, error) {
	cfg := llm.ApplyOptions(opts...)

	cp := make([]llm.Message, len(messages))
	copy(cp, messages)

	f.mu.Lock()
	f.calls = append(f.calls, Call{Messages: cp, Config: cfg})
	f.mu.Unlock()

	if f.Func != nil {
		return f.Func(ctx, messages, cfg)
	}
	if f.Err != nil {
		return nil, f.Err
	}
	return &llm.Response{Content: f.Reply, Model: cfg.Model, Done: true}, nil
}

// Calls returns a snapshot of the recorded calls in invocation order.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns the number of recorded calls.
func (f *Fake) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
