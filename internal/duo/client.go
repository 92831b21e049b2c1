package duo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/leadballoon/villacare/internal/chat"
	"github.com/leadballoon/villacare/internal/lead"
	"github.com/leadballoon/villacare/internal/persona"
)

// Replier returns one persona's reply to a conversation.
type Replier interface {
	Reply(ctx context.Context, agent persona.ID, messages []Entry) (string, error)
}

// Compile-time interface guard.
var _ Replier = (*HTTPClient)(nil)

// StatusError is a non-2xx answer from the VillaCare API.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("villacare api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("villacare api: status %d: %s", e.StatusCode, e.Message)
}

// HTTPClient talks to a running VillaCare server over its public API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient creates a client for baseURL. A nil hc gets a client with a
// timeout long enough for a completion call.
func NewHTTPClient(baseURL string, hc *http.Client) *HTTPClient {
	if hc == nil {
		hc = &http.Client{Timeout: 3 * time.Minute}
	}
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// Reply posts the conversation to /api/chat/{agent}.
func (c *HTTPClient) Reply(ctx context.Context, agent persona.ID, messages []Entry) (string, error) {
	req := chat.Request{Messages: make([]chat.Message, len(messages))}
	for i, m := range messages {
		req.Messages[i] = chat.Message{Role: m.Role, Content: m.Content, Agent: string(m.Agent)}
	}

	var resp chat.Response
	if err := c.post(ctx, "/api/chat/"+string(agent), req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Signup submits the investor signup form.
func (c *HTTPClient) Signup(ctx context.Context, name, email string) error {
	var resp lead.Response
	return c.post(ctx, "/api/signup", lead.Request{Name: name, Email: email}, &resp)
}

func (c *HTTPClient) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &e)
		return &StatusError{StatusCode: resp.StatusCode, Message: e.Error}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
