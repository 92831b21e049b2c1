package llm

// Message represents a single turn in a chat conversation.
type Message struct {
	Role    string `json:"role"` // One of RoleUser, RoleAssistant.
	Content string `json:"content"`
}

// Role constants for the Message.Role field. There is no system role:
// the system prompt is a separate channel (see WithSystem).
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Response contains the generated text and metadata.
type Response struct {
	Content string `json:"content"` // Text of the first text segment; empty when there is none.
	Model   string `json:"model"`   // Model that produced this response.
	Usage   Usage  `json:"usage"`   // Token consumption stats.
	Done    bool   `json:"done"`    // True if generation completed (false if truncated).
}

// Usage tracks token consumption for a single completion call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
