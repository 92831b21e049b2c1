// Package config loads VillaCare configuration from defaults, an optional
// YAML file and VC_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/spf13/viper"

	"github.com/leadballoon/villacare/internal/llm/anthropic"
	"github.com/leadballoon/villacare/internal/persona"
	"github.com/leadballoon/villacare/internal/server"
)

// Settings is the typed view of the loaded configuration.
type Settings struct {
	Server    server.Config            `mapstructure:"server"`
	Logging   LoggingConfig            `mapstructure:"logging"`
	Anthropic anthropic.Config         `mapstructure:"anthropic"`
	Personas  map[string]PersonaConfig `mapstructure:"personas"`
	Mail      MailConfig               `mapstructure:"mail"`
	Lead      LeadConfig               `mapstructure:"lead"`
}

// LoggingConfig selects the zap level and encoder.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// PersonaConfig overrides per-persona model parameters.
type PersonaConfig struct {
	Model string `mapstructure:"model"`
}

// MailConfig configures outbound email.
type MailConfig struct {
	ResendAPIKey string `mapstructure:"resend_api_key"`
	From         string `mapstructure:"from"`
}

// LeadConfig configures lead capture.
type LeadConfig struct {
	NotifyAddress string `mapstructure:"notify_address"`
}

// Load reads configuration from file and environment variables.
func Load(configPath string) (*viper.Viper, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.dev_mode", false)
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("server.rate_limit.rps", 0)
	v.SetDefault("server.rate_limit.burst", 20)
	v.SetDefault("server.rate_limit.trusted_proxies", []string{})
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	def := anthropic.DefaultConfig()
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", def.Model)
	v.SetDefault("anthropic.base_url", "")
	v.SetDefault("anthropic.timeout", def.Timeout)
	for _, id := range persona.Default().IDs() {
		v.SetDefault("personas."+string(id)+".model", "")
	}

	v.SetDefault("mail.resend_api_key", "")
	v.SetDefault("mail.from", "VillaCare <noreply@villacare.app>")
	v.SetDefault("lead.notify_address", "mark@leadballoon.co.uk")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("villacare")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/villacare")
	}

	// Environment variable support: VC_SERVER_PORT=9090
	v.SetEnvPrefix("VC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The website's deployment already exports these unprefixed names.
	_ = v.BindEnv("anthropic.api_key", "VC_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("mail.resend_api_key", "VC_MAIL_RESEND_API_KEY", "RESEND_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is fine -- use defaults
	}

	return v, nil
}

// Decode unmarshals v into Settings and validates the result.
func Decode(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate reports every invalid setting at once.
func (s *Settings) Validate() error {
	var errs []error

	if s.Server.Port < 0 || s.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", s.Server.Port))
	}
	if _, err := server.ParseTrustedProxies(s.Server.RateLimit.TrustedProxies); err != nil {
		errs = append(errs, fmt.Errorf("server.rate_limit.trusted_proxies: %w", err))
	}
	if s.Anthropic.APIKey == "" {
		errs = append(errs, errors.New("anthropic.api_key is required (VC_ANTHROPIC_API_KEY)"))
	}
	if s.Anthropic.Timeout <= 0 {
		errs = append(errs, errors.New("anthropic.timeout must be positive"))
	}
	for name := range s.Personas {
		if _, err := persona.Parse(name); err != nil {
			errs = append(errs, fmt.Errorf("personas.%s: %w", name, err))
		}
	}
	if s.Mail.ResendAPIKey == "" {
		errs = append(errs, errors.New("mail.resend_api_key is required (VC_MAIL_RESEND_API_KEY)"))
	}
	if _, err := mail.ParseAddress(s.Mail.From); err != nil {
		errs = append(errs, fmt.Errorf("mail.from %q: %w", s.Mail.From, err))
	}
	if _, err := mail.ParseAddress(s.Lead.NotifyAddress); err != nil {
		errs = append(errs, fmt.Errorf("lead.notify_address %q: %w", s.Lead.NotifyAddress, err))
	}

	return errors.Join(errs...)
}

// PersonaStore applies the configured model overrides to the built-in personas.
func (s *Settings) PersonaStore() (*persona.Store, error) {
	store := persona.Default()
	for name, pc := range s.Personas {
		id, err := persona.Parse(name)
		if err != nil {
			return nil, err
		}
		if store, err = store.WithModel(id, pc.Model); err != nil {
			return nil, err
		}
	}
	return store, nil
}
