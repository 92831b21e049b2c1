package llm

import (
	"errors"
	"fmt"
	"testing"
)

func TestProviderError_Unwrap(t *testing.T) {
	root := errors.New("dial tcp: connection refused")
	err := NewProviderError(ErrCodeServerError, "server unreachable", root)

	if !errors.Is(err, root) {
		t.Error("errors.Is should find the wrapped error")
	}
	if got := err.Error(); got != "server unreachable: dial tcp: connection refused" {
		t.Errorf("Error() = %q", got)
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"typed", NewProviderError(ErrCodeRateLimit, "slow down", nil), ErrCodeRateLimit},
		{"wrapped", fmt.Errorf("chat: %w", NewProviderError(ErrCodeAuthentication, "bad key", nil)), ErrCodeAuthentication},
		{"plain", errors.New("boom"), ErrCodeServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.want {
				t.Errorf("ErrorCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsHelpers(t *testing.T) {
	if !IsTimeoutError(NewProviderError(ErrCodeTimeout, "t", nil)) {
		t.Error("IsTimeoutError = false, want true")
	}
	if IsRateLimitError(NewProviderError(ErrCodeTimeout, "t", nil)) {
		t.Error("IsRateLimitError = true for timeout")
	}
	if IsAuthenticationError(errors.New("x")) {
		t.Error("IsAuthenticationError = true for untyped error")
	}
}

func TestApplyOptions(t *testing.T) {
	cfg := ApplyOptions()
	if cfg.MaxTokens != 1024 {
		t.Errorf("default MaxTokens = %d, want 1024", cfg.MaxTokens)
	}
	if cfg.System != "" || cfg.Model != "" {
		t.Errorf("defaults should leave system and model empty, got %+v", cfg)
	}

	cfg = ApplyOptions(WithSystem("be brief"), WithModel("m"), WithMaxTokens(10), WithTemperature(0.2))
	if cfg.System != "be brief" || cfg.Model != "m" || cfg.MaxTokens != 10 || cfg.Temperature != 0.2 {
		t.Errorf("ApplyOptions() = %+v", cfg)
	}
}
