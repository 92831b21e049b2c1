package chat

import "github.com/leadballoon/villacare/pkg/llm"

// Message is one conversation turn as sent by clients. Agent tags which
// persona authored an assistant turn; it never reaches the provider.
type Message struct {
	Role    string `json:"role" example:"user"`
	Content string `json:"content" example:"Hello"`
	Agent   string `json:"agent,omitempty" example:"alan"`
}

// Request is the body of every chat endpoint.
type Request struct {
	Messages []Message `json:"messages"`
}

// Response carries the first text segment of the completion.
type Response struct {
	Message string `json:"message" example:"Hi there!"`
}

// toLLM drops the agent tag and keeps role and content verbatim.
func toLLM(msgs []Message) []llm.Message {
	out := make([]llm.Message, len(msgs))
	for i, m := range msgs {
		out[i] = llm.Message{Role: m.Role, Content: m.Content}
	}
	return out
}
