package main

//	@title			VillaCare API
//	@version		0.1.0
//	@description	Persona chat and investor lead capture for the VillaCare website.
//	@BasePath		/api

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	_ "github.com/leadballoon/villacare/api/swagger"
	"github.com/leadballoon/villacare/internal/chat"
	"github.com/leadballoon/villacare/internal/config"
	"github.com/leadballoon/villacare/internal/lead"
	"github.com/leadballoon/villacare/internal/llm/anthropic"
	"github.com/leadballoon/villacare/internal/mail/resend"
	"github.com/leadballoon/villacare/internal/server"
	"github.com/leadballoon/villacare/internal/version"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Println(version.Info())
		return
	}

	configPath := flag.String("config", "", "path to configuration file")
	envFile := flag.String("env-file", ".env", "dotenv file loaded before configuration (ignored if missing)")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	// Existing environment variables win over the dotenv file.
	envLoaded := godotenv.Load(*envFile) == nil

	// Load configuration (before logger, so log level/format can be configured).
	viperCfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(viperCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("VillaCare server starting", zap.String("version", version.Short()))

	if f := viperCfg.ConfigFileUsed(); f != "" {
		logger.Info("configuration loaded",
			zap.String("component", "config"),
			zap.String("source", f),
		)
	} else {
		logger.Info("no configuration file found, using defaults and environment",
			zap.String("component", "config"),
			zap.Bool("env_file", envLoaded),
		)
	}

	settings, err := config.Decode(viperCfg)
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	personas, err := settings.PersonaStore()
	if err != nil {
		logger.Fatal("invalid persona configuration", zap.Error(err))
	}
	for _, id := range personas.IDs() {
		p, _ := personas.Lookup(id)
		logger.Info("persona loaded",
			zap.String("component", "persona"),
			zap.String("agent", string(id)),
			zap.String("model", p.Model),
		)
	}

	// Built once; shared by every request.
	provider, err := anthropic.New(settings.Anthropic, logger.Named("anthropic"))
	if err != nil {
		logger.Fatal("failed to create completion provider", zap.Error(err))
	}

	mailer, err := resend.New(resend.Config{APIKey: settings.Mail.ResendAPIKey}, logger.Named("mail"))
	if err != nil {
		logger.Fatal("failed to create mailer", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A bad key should be visible at start-up, not on the first visitor's message.
	hb := &heartbeat{}
	go hb.run(ctx, heartbeatInterval, provider.Heartbeat, logger)

	chatHandler := chat.NewHandler(provider, personas, logger.Named("chat"))
	leadHandler := lead.NewHandler(mailer, lead.Config{
		From:          settings.Mail.From,
		NotifyAddress: settings.Lead.NotifyAddress,
	}, logger.Named("lead"))

	srv := server.New(settings.Server, logger, hb.ready, chatHandler, leadHandler)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("server stopped", zap.Error(err))
		}
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("VillaCare server stopped")
}

// heartbeatInterval is how often the provider is re-checked for /readyz.
const heartbeatInterval = 30 * time.Second

// heartbeat holds the outcome of the latest provider check for /readyz.
type heartbeat struct {
	mu      sync.RWMutex
	checked bool
	err     error
}

// run checks the provider immediately and then every interval until ctx is
// done. Only transitions between healthy and failing are logged.
func (h *heartbeat) run(ctx context.Context, interval time.Duration, check func(context.Context) error, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := check(checkCtx)
		cancel()
		if ctx.Err() != nil {
			return
		}

		if h.set(err) {
			if err != nil {
				logger.Warn("anthropic heartbeat failed", zap.Error(err))
			} else {
				logger.Info("anthropic heartbeat ok")
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// set records the latest result and reports whether the state changed.
func (h *heartbeat) set(err error) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	changed := !h.checked || (h.err == nil) != (err == nil)
	h.checked = true
	h.err = err
	return changed
}

func (h *heartbeat) ready(_ context.Context) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.checked {
		return errors.New("anthropic heartbeat pending")
	}
	if h.err != nil {
		return errors.New("anthropic heartbeat failed")
	}
	return nil
}
