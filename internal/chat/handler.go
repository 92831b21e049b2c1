// Package chat implements the persona chat proxy: one stateless endpoint per
// persona that relays a conversation to the model provider with the
// persona's fixed system prompt.
package chat

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/leadballoon/villacare/internal/persona"
	"github.com/leadballoon/villacare/pkg/llm"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Fixed client-facing error messages.
const (
	errMessagesRequired = "Messages are required"
	errChatFailed       = "Failed to process chat request"
	errUnknownAgent     = "Unknown agent"
	errBodyTooLarge     = "Request body too large"
)

// Handler serves the chat endpoints. It holds no per-request state.
type Handler struct {
	provider llm.Provider
	personas *persona.Store
	logger   *zap.Logger
}

// NewHandler creates a chat handler. provider is shared by every request.
func NewHandler(provider llm.Provider, personas *persona.Store, logger *zap.Logger) *Handler {
	return &Handler{provider: provider, personas: personas, logger: logger}
}

// RegisterRoutes mounts the chat endpoints.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/chat/{agent}", h.handleChat)

	// Per-persona paths used by the website.
	mux.HandleFunc("POST /api/alan", h.fixed(persona.Alan))
	mux.HandleFunc("POST /api/amanda", h.fixed(persona.Amanda))
	mux.HandleFunc("POST /api/chat", h.fixed(persona.Investor))
}

// handleChat relays a conversation to the named persona.
//
//	@Summary		Chat with a persona
//	@Description	Sends the conversation history to the persona and returns the reply.
//	@Tags			chat
//	@Accept			json
//	@Produce		json
//	@Param			agent	path		string	true	"Persona"	Enums(alan, amanda, investor)
//	@Param			request	body		Request	true	"Conversation history"
//	@Success		200		{object}	Response
//	@Failure		400		{object}	server.ErrorResponse
//	@Failure		404		{object}	server.ErrorResponse
//	@Failure		413		{object}	server.ErrorResponse
//	@Failure		500		{object}	server.ErrorResponse
//	@Router			/chat/{agent} [post]
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	id, err := persona.Parse(r.PathValue("agent"))
	if err != nil {
		writeError(w, http.StatusNotFound, errUnknownAgent)
		return
	}
	h.serve(w, r, id)
}

func (h *Handler) fixed(id persona.ID) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.serve(w, r, id)
	}
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, id persona.ID) {
	p, err := h.personas.Lookup(id)
	if err != nil {
		writeError(w, http.StatusNotFound, errUnknownAgent)
		return
	}

	msgs, status := decodeMessages(w, r)
	if status != 0 {
		msg := errMessagesRequired
		if status == http.StatusRequestEntityTooLarge {
			msg = errBodyTooLarge
		}
		chatRequests.WithLabelValues(string(id), "invalid").Inc()
		writeError(w, status, msg)
		return
	}

	start := time.Now()
	resp, err := h.provider.Chat(r.Context(), toLLM(msgs),
		llm.WithSystem(p.Prompt),
		llm.WithModel(p.Model),
		llm.WithMaxTokens(p.MaxTokens),
	)
	chatDuration.WithLabelValues(string(id)).Observe(time.Since(start).Seconds())
	if err != nil {
		chatRequests.WithLabelValues(string(id), "error").Inc()
		h.logFailure(id, err)
		writeError(w, http.StatusInternalServerError, errChatFailed)
		return
	}

	chatRequests.WithLabelValues(string(id), "ok").Inc()
	if !resp.Done {
		h.logger.Debug("completion truncated at max tokens", zap.String("agent", string(id)))
	}
	writeJSON(w, http.StatusOK, Response{Message: resp.Content})
}

// logFailure logs a provider error. Upstream throttling is transient and
// logged at warn; credential and model errors carry a hint at the setting
// to fix.
func (h *Handler) logFailure(id persona.ID, err error) {
	fields := []zap.Field{
		zap.String("agent", string(id)),
		zap.String("code", llm.ErrorCode(err)),
		zap.Error(err),
	}
	switch {
	case llm.IsRateLimitError(err):
		h.logger.Warn("chat completion failed", fields...)
	case llm.IsAuthenticationError(err):
		h.logger.Error("chat completion failed", append(fields, zap.String("hint", "check anthropic.api_key"))...)
	case llm.IsModelNotFoundError(err):
		h.logger.Error("chat completion failed", append(fields, zap.String("hint", "check personas."+string(id)+".model"))...)
	default:
		h.logger.Error("chat completion failed", fields...)
	}
}

// decodeMessages reads the request body and returns its messages, or a
// non-zero HTTP status when the body is unusable. An empty array is valid;
// an absent, null or non-array field is not.
func decodeMessages(w http.ResponseWriter, r *http.Request) ([]Message, int) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var raw struct {
		Messages json.RawMessage `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, http.StatusRequestEntityTooLarge
		}
		return nil, http.StatusBadRequest
	}

	body := bytes.TrimSpace(raw.Messages)
	if len(body) == 0 || body[0] != '[' {
		return nil, http.StatusBadRequest
	}

	msgs := []Message{}
	if err := json.Unmarshal(body, &msgs); err != nil {
		return nil, http.StatusBadRequest
	}
	return msgs, 0
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
