// Package resend implements mail.Mailer on top of the Resend email API.
package resend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	sdk "github.com/resend/resend-go/v2"
	"go.uber.org/zap"

	"github.com/leadballoon/villacare/internal/mail"
)

// Compile-time interface guard.
var _ mail.Mailer = (*Mailer)(nil)

// Config holds the Resend client configuration.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Mailer sends email through Resend. Safe for concurrent use.
type Mailer struct {
	client *sdk.Client
	logger *zap.Logger
}

// New creates a Resend mailer.
func New(cfg Config, logger *zap.Logger) (*Mailer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("resend: api key is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := sdk.NewCustomClient(&http.Client{Timeout: timeout}, cfg.APIKey)
	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("resend: parse base url: %w", err)
		}
		client.BaseURL = u
	}

	return &Mailer{client: client, logger: logger}, nil
}

// Send delivers e with a single API request.
func (m *Mailer) Send(ctx context.Context, e mail.Email) error {
	resp, err := m.client.Emails.SendWithContext(ctx, &sdk.SendEmailRequest{
		From:    e.From,
		To:      []string{e.To},
		Subject: e.Subject,
		Html:    e.HTML,
	})
	if err != nil {
		return &mail.DeliveryError{To: e.To, Err: err}
	}

	m.logger.Debug("email sent",
		zap.String("id", resp.Id),
		zap.String("subject", e.Subject),
	)
	return nil
}
