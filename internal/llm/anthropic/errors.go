package anthropic

import (
	"context"
	"errors"
	"net/http"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/leadballoon/villacare/pkg/llm"
)

// mapError translates Anthropic SDK and network errors into typed llm.ProviderError values.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return llm.NewProviderError(llm.ErrCodeTimeout, "request timed out or cancelled", err)
	}

	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		msg := strings.ToLower(apiErr.Error())
		switch {
		case apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden:
			return llm.NewProviderError(llm.ErrCodeAuthentication, "anthropic authentication failed", err)
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return llm.NewProviderError(llm.ErrCodeRateLimit, "anthropic rate limit exceeded", err)
		case apiErr.StatusCode == http.StatusNotFound:
			return llm.NewProviderError(llm.ErrCodeModelNotFound, "anthropic model not found", err)
		case apiErr.StatusCode == http.StatusBadRequest &&
			(strings.Contains(msg, "token") || strings.Contains(msg, "context")):
			return llm.NewProviderError(llm.ErrCodeContextLength, "anthropic context length exceeded", err)
		case apiErr.StatusCode >= 500:
			return llm.NewProviderError(llm.ErrCodeServerError, "anthropic server error", err)
		case apiErr.StatusCode >= 400:
			return llm.NewProviderError(llm.ErrCodeInvalidRequest, "anthropic rejected the request", err)
		}
	}

	msg := err.Error()
	if strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "dial tcp") {
		return llm.NewProviderError(llm.ErrCodeServerError, "anthropic server unreachable", err)
	}

	return llm.NewProviderError(llm.ErrCodeServerError, "anthropic error", err)
}
