package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/leadballoon/villacare/internal/persona"
	"github.com/leadballoon/villacare/pkg/llm"
	"github.com/leadballoon/villacare/pkg/llm/llmtest"
)

func newTestMux(t *testing.T, fake *llmtest.Fake) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	NewHandler(fake, persona.Default(), zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func post(mux http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestChat_HelloScenario(t *testing.T) {
	fake := llmtest.NewFake("Hi there!")
	mux := newTestMux(t, fake)

	w := post(mux, "/api/chat/alan", `{"messages":[{"role":"user","content":"Hello"}]}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, map[string]any{"message": "Hi there!"}, decodeBody(t, w))

	require.Equal(t, 1, fake.CallCount())
	call := fake.Calls()[0]
	assert.Equal(t, []llm.Message{{Role: "user", Content: "Hello"}}, call.Messages)

	alan, _ := persona.Default().Lookup(persona.Alan)
	assert.Equal(t, alan.Prompt, call.Config.System)
	assert.Equal(t, "claude-sonnet-4-20250514", call.Config.Model)
	assert.Equal(t, 1024, call.Config.MaxTokens)
}

func TestChat_ForwardsVerbatimAndStripsAgent(t *testing.T) {
	fake := llmtest.NewFake("ok")
	mux := newTestMux(t, fake)

	body := `{"messages":[
		{"role":"assistant","content":"[You]: hi","agent":"amanda"},
		{"role":"user","content":"  spaces  kept  "},
		{"role":"assistant","content":"<b>not escaped</b>"},
		{"role":"user","content":"¿Piscina? 🏊"}
	]}`
	w := post(mux, "/api/chat/amanda", body)
	require.Equal(t, http.StatusOK, w.Code)

	want := []llm.Message{
		{Role: "assistant", Content: "[You]: hi"},
		{Role: "user", Content: "  spaces  kept  "},
		{Role: "assistant", Content: "<b>not escaped</b>"},
		{Role: "user", Content: "¿Piscina? 🏊"},
	}
	call := fake.Calls()[0]
	assert.Equal(t, want, call.Messages)
	for _, m := range call.Messages {
		assert.NotContains(t, m.Content, "You are", "system prompt must not be part of the message sequence")
	}
}

func TestChat_EmptyArrayIsForwarded(t *testing.T) {
	fake := llmtest.NewFake("")
	mux := newTestMux(t, fake)

	w := post(mux, "/api/chat/investor", `{"messages":[]}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"message": ""}, decodeBody(t, w))
	require.Equal(t, 1, fake.CallCount())
	assert.Empty(t, fake.Calls()[0].Messages)
}

func TestChat_InvalidRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ``},
		{"not json", `messages please`},
		{"missing field", `{}`},
		{"null", `{"messages":null}`},
		{"string", `{"messages":"Hello"}`},
		{"object", `{"messages":{"role":"user"}}`},
		{"number", `{"messages":42}`},
		{"array of strings", `{"messages":["Hello"]}`},
		{"truncated", `{"messages":[{"role":"user"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := llmtest.NewFake("unused")
			mux := newTestMux(t, fake)

			w := post(mux, "/api/chat/alan", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, map[string]any{"error": "Messages are required"}, decodeBody(t, w))
			assert.Zero(t, fake.CallCount(), "provider must not be called")
		})
	}
}

func TestChat_OversizedBody(t *testing.T) {
	fake := llmtest.NewFake("unused")
	mux := newTestMux(t, fake)

	big := `{"messages":[{"role":"user","content":"` + strings.Repeat("a", maxBodyBytes) + `"}]}`
	w := post(mux, "/api/chat/alan", big)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, decodeBody(t, w), "error")
	assert.Zero(t, fake.CallCount())
}

func TestChat_ProviderFailureDoesNotLeak(t *testing.T) {
	const secret = "upstream said: invalid x-api-key sk-ant-LEAKME"
	fake := &llmtest.Fake{Err: llm.NewProviderError(llm.ErrCodeAuthentication, "authentication failed", errors.New(secret))}
	mux := newTestMux(t, fake)

	w := post(mux, "/api/alan", `{"messages":[{"role":"user","content":"Hello"}]}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, map[string]any{"error": "Failed to process chat request"}, decodeBody(t, w))
	assert.NotContains(t, w.Body.String(), "LEAKME")
	assert.Equal(t, 1, fake.CallCount(), "no retries")
}

func TestChat_ProviderFailureIsLogged(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		level    zapcore.Level
		wantHint string
	}{
		{"rate limit", llm.ErrCodeRateLimit, zapcore.WarnLevel, ""},
		{"authentication", llm.ErrCodeAuthentication, zapcore.ErrorLevel, "check anthropic.api_key"},
		{"model not found", llm.ErrCodeModelNotFound, zapcore.ErrorLevel, "check personas.amanda.model"},
		{"server error", llm.ErrCodeServerError, zapcore.ErrorLevel, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			fake := &llmtest.Fake{Err: llm.NewProviderError(tt.code, "upstream said no", nil)}

			mux := http.NewServeMux()
			NewHandler(fake, persona.Default(), zap.New(core)).RegisterRoutes(mux)

			w := post(mux, "/api/chat/amanda", `{"messages":[]}`)
			require.Equal(t, http.StatusInternalServerError, w.Code)

			entries := logs.FilterMessage("chat completion failed").All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.level, entries[0].Level)
			fields := entries[0].ContextMap()
			assert.Equal(t, "amanda", fields["agent"])
			assert.Equal(t, tt.code, fields["code"])
			if tt.wantHint == "" {
				assert.NotContains(t, fields, "hint")
			} else {
				assert.Equal(t, tt.wantHint, fields["hint"])
			}
		})
	}
}

func TestChat_NoCaching(t *testing.T) {
	n := 0
	fake := &llmtest.Fake{Func: func(context.Context, []llm.Message, llm.CallConfig) (*llm.Response, error) {
		n++
		return &llm.Response{Content: strings.Repeat("!", n), Done: true}, nil
	}}
	mux := newTestMux(t, fake)

	body := `{"messages":[{"role":"user","content":"Same"}]}`
	w1 := post(mux, "/api/chat/alan", body)
	w2 := post(mux, "/api/chat/alan", body)

	assert.Equal(t, 2, fake.CallCount())
	assert.Equal(t, "!", decodeBody(t, w1)["message"])
	assert.Equal(t, "!!", decodeBody(t, w2)["message"])
}

func TestChat_Routes(t *testing.T) {
	store := persona.Default()
	tests := []struct {
		path  string
		agent persona.ID
	}{
		{"/api/chat/alan", persona.Alan},
		{"/api/chat/AMANDA", persona.Amanda},
		{"/api/chat/investor", persona.Investor},
		{"/api/alan", persona.Alan},
		{"/api/amanda", persona.Amanda},
		{"/api/chat", persona.Investor},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			fake := llmtest.NewFake("ok")
			mux := newTestMux(t, fake)

			w := post(mux, tt.path, `{"messages":[]}`)
			require.Equal(t, http.StatusOK, w.Code)

			p, _ := store.Lookup(tt.agent)
			cfg := fake.Calls()[0].Config
			assert.Equal(t, p.Prompt, cfg.System)
			assert.Equal(t, p.Model, cfg.Model)
		})
	}
}

func TestChat_UnknownAgent(t *testing.T) {
	fake := llmtest.NewFake("unused")
	mux := newTestMux(t, fake)

	w := post(mux, "/api/chat/bob", `{"messages":[]}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, map[string]any{"error": "Unknown agent"}, decodeBody(t, w))
	assert.Zero(t, fake.CallCount())
}

func TestChat_MethodNotAllowed(t *testing.T) {
	mux := newTestMux(t, llmtest.NewFake("unused"))

	req := httptest.NewRequest(http.MethodGet, "/api/chat/alan", http.NoBody)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestChat_ModelOverride(t *testing.T) {
	store, err := persona.Default().WithModel(persona.Investor, "claude-custom")
	require.NoError(t, err)

	fake := llmtest.NewFake("ok")
	mux := http.NewServeMux()
	NewHandler(fake, store, zap.NewNop()).RegisterRoutes(mux)

	post(mux, "/api/chat", `{"messages":[]}`)
	assert.Equal(t, "claude-custom", fake.Calls()[0].Config.Model)
}

func TestChat_Metrics(t *testing.T) {
	before := testutil.ToFloat64(chatRequests.WithLabelValues("investor", "invalid"))
	mux := newTestMux(t, llmtest.NewFake("unused"))

	post(mux, "/api/chat/investor", `{"messages":null}`)

	after := testutil.ToFloat64(chatRequests.WithLabelValues("investor", "invalid"))
	assert.Equal(t, before+1, after)
}
